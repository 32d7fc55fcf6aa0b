package cache

import (
	"context"
	"runtime"
	"weak"
)

// reclaimQueueDepth bounds the reclamation-notification queue. A full queue
// drops notifications; the dead holder is still detected and removed on the
// next Get of its key.
const reclaimQueueDepth = 1024

// WeakCache stores values behind weak pointers so the collector may reclaim
// them once no strong reference exists elsewhere. Reclaimed keys are posted
// to a notification queue that every operation drains first, keeping the
// delegate's key set consistent with actually retrievable values.
//
// Because weakly held values would otherwise vanish at the first collection,
// a bounded hard-retention ring pins the most recently fetched values until
// they age out. Get returns absent both for keys never stored and for keys
// whose value was reclaimed; callers cannot tell the two apart.
//
// Reclamation timing belongs to the runtime: tests and callers may only
// assume a reclaimed entry disappears eventually, not immediately.
type WeakCache struct {
	delegate  Cache
	ring      *retentionRing
	reclaimed chan string
}

// box carries a stored value. The weak pointer targets the box, and the
// box's cleanup posts the key to the reclamation queue.
type box struct {
	value any
}

type weakHolder struct {
	ptr weak.Pointer[box]
}

// NewWeakCache wraps delegate with the default hard-retention capacity.
func NewWeakCache(delegate Cache) *WeakCache {
	return &WeakCache{
		delegate:  delegate,
		ring:      newRetentionRing(DefaultHardRetention),
		reclaimed: make(chan string, reclaimQueueDepth),
	}
}

// SetSize sets the hard-retention ring capacity.
func (c *WeakCache) SetSize(n int) {
	c.ring.Resize(n)
}

func (c *WeakCache) ID() string { return c.delegate.ID() }

func (c *WeakCache) Size() int {
	_ = c.drainReclaimed(context.Background())
	return c.delegate.Size()
}

func (c *WeakCache) Put(ctx context.Context, key string, value any) error {
	if err := c.drainReclaimed(ctx); err != nil {
		return err
	}
	b := &box{value: value}
	queue := c.reclaimed
	runtime.AddCleanup(b, func(k string) {
		select {
		case queue <- k:
		default:
		}
	}, key)
	return c.delegate.Put(ctx, key, &weakHolder{ptr: weak.Make(b)})
}

func (c *WeakCache) Get(ctx context.Context, key string) (any, bool, error) {
	if err := c.drainReclaimed(ctx); err != nil {
		return nil, false, err
	}
	stored, ok, err := c.delegate.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	holder, ok := stored.(*weakHolder)
	if !ok {
		// Delegate contents are fully managed by this decorator.
		return nil, false, nil
	}
	b := holder.ptr.Value()
	if b == nil {
		// Reclaimed between the drain and the lookup.
		return nil, false, c.delegate.Remove(ctx, key)
	}
	c.ring.Keep(key, b)
	return b.value, true, nil
}

func (c *WeakCache) Remove(ctx context.Context, key string) error {
	if err := c.drainReclaimed(ctx); err != nil {
		return err
	}
	return c.delegate.Remove(ctx, key)
}

func (c *WeakCache) Clear(ctx context.Context) error {
	c.ring.Clear()
	if err := c.drainReclaimed(ctx); err != nil {
		return err
	}
	return c.delegate.Clear(ctx)
}

// ApplyProperties recognizes "size" (int), the hard-retention capacity.
func (c *WeakCache) ApplyProperties(props map[string]string) error {
	n, ok, err := intProperty(props, "size")
	if err != nil {
		return err
	}
	if ok {
		c.SetSize(n)
	}
	return nil
}

func (c *WeakCache) drainReclaimed(ctx context.Context) error {
	for {
		select {
		case key := <-c.reclaimed:
			if err := c.delegate.Remove(ctx, key); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

var (
	_ Cache                = (*WeakCache)(nil)
	_ SizeConfigurable     = (*WeakCache)(nil)
	_ PropertyConfigurable = (*WeakCache)(nil)
)
