package cache

import (
	"container/list"
	"context"
)

// DefaultEvictionCapacity is the key bound used by the eviction decorators
// when no size is configured.
const DefaultEvictionCapacity = 1024

// LRUCache bounds a delegate by recency: when a Put pushes the tracked key
// count past the capacity, the least-recently-touched key is evicted from
// both the index and the delegate. A key is touched whenever it is looked
// up, whether or not the delegate still holds its value. Eviction is exactly
// one key per overflowing Put, never bulk.
type LRUCache struct {
	delegate Cache
	capacity int
	order    *list.List // front = most recently used
	index    map[string]*list.Element
}

// NewLRUCache wraps delegate with the default capacity.
func NewLRUCache(delegate Cache) *LRUCache {
	c := &LRUCache{delegate: delegate}
	c.SetSize(DefaultEvictionCapacity)
	return c
}

// SetSize sets the tracked-key capacity and resets the recency index.
func (c *LRUCache) SetSize(n int) {
	c.capacity = n
	c.order = list.New()
	c.index = make(map[string]*list.Element, n)
}

func (c *LRUCache) ID() string { return c.delegate.ID() }

func (c *LRUCache) Size() int { return c.delegate.Size() }

func (c *LRUCache) Put(ctx context.Context, key string, value any) error {
	if err := c.delegate.Put(ctx, key, value); err != nil {
		return err
	}
	c.touch(key)
	if c.order.Len() > c.capacity {
		eldest := c.order.Back()
		c.order.Remove(eldest)
		eldestKey := eldest.Value.(string)
		delete(c.index, eldestKey)
		return c.delegate.Remove(ctx, eldestKey)
	}
	return nil
}

func (c *LRUCache) Get(ctx context.Context, key string) (any, bool, error) {
	// Recency updates happen on lookup, independent of the delegate result.
	if elem, ok := c.index[key]; ok {
		c.order.MoveToFront(elem)
	}
	return c.delegate.Get(ctx, key)
}

func (c *LRUCache) Remove(ctx context.Context, key string) error {
	if elem, ok := c.index[key]; ok {
		c.order.Remove(elem)
		delete(c.index, key)
	}
	return c.delegate.Remove(ctx, key)
}

func (c *LRUCache) Clear(ctx context.Context) error {
	c.order.Init()
	c.index = make(map[string]*list.Element, c.capacity)
	return c.delegate.Clear(ctx)
}

// ApplyProperties recognizes "size" (int).
func (c *LRUCache) ApplyProperties(props map[string]string) error {
	n, ok, err := intProperty(props, "size")
	if err != nil {
		return err
	}
	if ok {
		c.SetSize(n)
	}
	return nil
}

func (c *LRUCache) touch(key string) {
	if elem, ok := c.index[key]; ok {
		c.order.MoveToFront(elem)
		return
	}
	c.index[key] = c.order.PushFront(key)
}

var (
	_ Cache                = (*LRUCache)(nil)
	_ SizeConfigurable     = (*LRUCache)(nil)
	_ PropertyConfigurable = (*LRUCache)(nil)
)
