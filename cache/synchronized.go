package cache

import (
	"context"
	"sync"
)

// SynchronizedCache serializes every operation on the chain below it behind
// one mutex. The decorators underneath are free to stay single-threaded;
// callers see one coarse lock for the whole cache instance.
type SynchronizedCache struct {
	mu       sync.Mutex
	delegate Cache
}

// NewSynchronizedCache wraps delegate.
func NewSynchronizedCache(delegate Cache) *SynchronizedCache {
	return &SynchronizedCache{delegate: delegate}
}

func (c *SynchronizedCache) ID() string { return c.delegate.ID() }

func (c *SynchronizedCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegate.Size()
}

func (c *SynchronizedCache) Put(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegate.Put(ctx, key, value)
}

func (c *SynchronizedCache) Get(ctx context.Context, key string) (any, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegate.Get(ctx, key)
}

func (c *SynchronizedCache) Remove(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegate.Remove(ctx, key)
}

func (c *SynchronizedCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegate.Clear(ctx)
}

var _ Cache = (*SynchronizedCache)(nil)
