package cache

import (
	"container/list"
	"context"
)

// FIFOCache bounds a delegate by insertion order: every Put appends the key
// to a queue, and when the queue outgrows the capacity the front key (the
// oldest-inserted) is evicted from the delegate, regardless of how recently
// it was read. Get never changes eviction order; that is the distinguishing
// invariant versus LRUCache.
type FIFOCache struct {
	delegate Cache
	capacity int
	order    *list.List // front = oldest inserted
}

// NewFIFOCache wraps delegate with the default capacity.
func NewFIFOCache(delegate Cache) *FIFOCache {
	return &FIFOCache{
		delegate: delegate,
		capacity: DefaultEvictionCapacity,
		order:    list.New(),
	}
}

// SetSize sets the queue capacity.
func (c *FIFOCache) SetSize(n int) {
	c.capacity = n
}

func (c *FIFOCache) ID() string { return c.delegate.ID() }

func (c *FIFOCache) Size() int { return c.delegate.Size() }

func (c *FIFOCache) Put(ctx context.Context, key string, value any) error {
	c.order.PushBack(key)
	if c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		if err := c.delegate.Remove(ctx, oldest.Value.(string)); err != nil {
			return err
		}
	}
	return c.delegate.Put(ctx, key, value)
}

func (c *FIFOCache) Get(ctx context.Context, key string) (any, bool, error) {
	return c.delegate.Get(ctx, key)
}

func (c *FIFOCache) Remove(ctx context.Context, key string) error {
	return c.delegate.Remove(ctx, key)
}

func (c *FIFOCache) Clear(ctx context.Context) error {
	c.order.Init()
	return c.delegate.Clear(ctx)
}

// ApplyProperties recognizes "size" (int).
func (c *FIFOCache) ApplyProperties(props map[string]string) error {
	n, ok, err := intProperty(props, "size")
	if err != nil {
		return err
	}
	if ok {
		c.SetSize(n)
	}
	return nil
}

var (
	_ Cache                = (*FIFOCache)(nil)
	_ SizeConfigurable     = (*FIFOCache)(nil)
	_ PropertyConfigurable = (*FIFOCache)(nil)
)
