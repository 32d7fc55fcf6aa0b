package cache

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// SerializedCache deep-copies values across the cache boundary: Put encodes
// the value and stores the encoded form, Get decodes a fresh copy before
// returning. A stored value and a returned value are therefore never
// reference-identical to anything the caller holds, so mutating either side
// cannot alias cached state.
//
// The copy is a value copy, not a type copy: composite values come back as
// the codec's generic shapes (maps, slices), the usual cost of
// serialization-based isolation.
type SerializedCache struct {
	delegate Cache
}

// NewSerializedCache wraps delegate.
func NewSerializedCache(delegate Cache) *SerializedCache {
	return &SerializedCache{delegate: delegate}
}

func (c *SerializedCache) ID() string { return c.delegate.ID() }

func (c *SerializedCache) Size() int { return c.delegate.Size() }

func (c *SerializedCache) Put(ctx context.Context, key string, value any) error {
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}
	return c.delegate.Put(ctx, key, encoded)
}

func (c *SerializedCache) Get(ctx context.Context, key string) (any, bool, error) {
	stored, ok, err := c.delegate.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	encoded, ok := stored.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("%w: delegate holds unencoded value for key %q", ErrNotSerializable, key)
	}
	var value any
	if err := msgpack.Unmarshal(encoded, &value); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}
	return value, true, nil
}

func (c *SerializedCache) Remove(ctx context.Context, key string) error {
	return c.delegate.Remove(ctx, key)
}

func (c *SerializedCache) Clear(ctx context.Context) error {
	return c.delegate.Clear(ctx)
}

var _ Cache = (*SerializedCache)(nil)
