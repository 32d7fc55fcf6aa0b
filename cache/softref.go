package cache

import (
	"container/list"
	"context"
)

// Soft-pressure defaults.
const (
	DefaultSoftBudgetBytes = 64 << 20
	DefaultSoftMaxEntries  = 4096

	// entryOverheadBytes is the fixed per-entry accounting charge on top of
	// the estimated payload size.
	entryOverheadBytes = 48
)

// SoftCache approximates soft-reference behavior in a runtime without
// collector-driven reclamation: values are held strongly and charged against
// a configurable memory budget, and when a Put trips the budget (or the
// entry cap) the oldest entries are reclaimed until the cache is back under
// it. Values currently pinned in the hard-retention ring are skipped, so a
// just-fetched value survives pressure until it ages out of the ring.
//
// Reclaimed keys travel through the same notification queue as WeakCache:
// they are enqueued at pressure time and removed from the delegate by the
// drain at the top of the next operation. Exact reclamation timing is
// therefore eventual, matching the approximation this decorator is.
type SoftCache struct {
	delegate  Cache
	ring      *retentionRing
	reclaimed chan string

	budget     int64
	maxEntries int

	usedBytes int64
	order     *list.List // front = oldest inserted
	index     map[string]*list.Element
	sizes     map[string]int64
}

// NewSoftCache wraps delegate with the default budget, entry cap, and
// hard-retention capacity.
func NewSoftCache(delegate Cache) *SoftCache {
	return &SoftCache{
		delegate:   delegate,
		ring:       newRetentionRing(DefaultHardRetention),
		reclaimed:  make(chan string, reclaimQueueDepth),
		budget:     DefaultSoftBudgetBytes,
		maxEntries: DefaultSoftMaxEntries,
		order:      list.New(),
		index:      make(map[string]*list.Element),
		sizes:      make(map[string]int64),
	}
}

// SetSize sets the hard-retention ring capacity.
func (c *SoftCache) SetSize(n int) {
	c.ring.Resize(n)
}

// SetBudget sets the approximate byte budget that triggers reclamation.
func (c *SoftCache) SetBudget(bytes int64) {
	c.budget = bytes
}

// SetMaxEntries sets the tracked-entry cap that triggers reclamation.
func (c *SoftCache) SetMaxEntries(n int) {
	c.maxEntries = n
}

func (c *SoftCache) ID() string { return c.delegate.ID() }

func (c *SoftCache) Size() int {
	_ = c.drainReclaimed(context.Background())
	return c.delegate.Size()
}

func (c *SoftCache) Put(ctx context.Context, key string, value any) error {
	if err := c.drainReclaimed(ctx); err != nil {
		return err
	}
	if err := c.delegate.Put(ctx, key, value); err != nil {
		return err
	}
	c.account(key, estimateSize(value))
	c.reclaimUnderPressure()
	return nil
}

func (c *SoftCache) Get(ctx context.Context, key string) (any, bool, error) {
	if err := c.drainReclaimed(ctx); err != nil {
		return nil, false, err
	}
	value, ok, err := c.delegate.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	c.ring.Keep(key, value)
	return value, true, nil
}

func (c *SoftCache) Remove(ctx context.Context, key string) error {
	if err := c.drainReclaimed(ctx); err != nil {
		return err
	}
	c.forget(key)
	return c.delegate.Remove(ctx, key)
}

func (c *SoftCache) Clear(ctx context.Context) error {
	c.ring.Clear()
	if err := c.drainReclaimed(ctx); err != nil {
		return err
	}
	c.order.Init()
	c.index = make(map[string]*list.Element)
	c.sizes = make(map[string]int64)
	c.usedBytes = 0
	return c.delegate.Clear(ctx)
}

// ApplyProperties recognizes "size" (int, hard-retention capacity),
// "budgetBytes" (int64), and "maxEntries" (int).
func (c *SoftCache) ApplyProperties(props map[string]string) error {
	if n, ok, err := intProperty(props, "size"); err != nil {
		return err
	} else if ok {
		c.SetSize(n)
	}
	if b, ok, err := int64Property(props, "budgetBytes"); err != nil {
		return err
	} else if ok {
		c.SetBudget(b)
	}
	if n, ok, err := intProperty(props, "maxEntries"); err != nil {
		return err
	} else if ok {
		c.SetMaxEntries(n)
	}
	return nil
}

func (c *SoftCache) account(key string, size int64) {
	size += entryOverheadBytes
	if _, ok := c.index[key]; ok {
		// Re-put keeps the original insertion position.
		c.usedBytes += size - c.sizes[key]
		c.sizes[key] = size
		return
	}
	c.index[key] = c.order.PushBack(key)
	c.sizes[key] = size
	c.usedBytes += size
}

func (c *SoftCache) forget(key string) {
	elem, ok := c.index[key]
	if !ok {
		return
	}
	c.order.Remove(elem)
	delete(c.index, key)
	c.usedBytes -= c.sizes[key]
	delete(c.sizes, key)
}

// reclaimUnderPressure enqueues the oldest unpinned entries until the cache
// is back under both the byte budget and the entry cap.
func (c *SoftCache) reclaimUnderPressure() {
	elem := c.order.Front()
	for elem != nil && (c.usedBytes > c.budget || c.order.Len() > c.maxEntries) {
		next := elem.Next()
		key := elem.Value.(string)
		if !c.ring.Holds(key) {
			c.forget(key)
			select {
			case c.reclaimed <- key:
			default:
			}
		}
		elem = next
	}
}

func (c *SoftCache) drainReclaimed(ctx context.Context) error {
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

// estimateSize approximates the in-memory cost of a value. It is a heuristic
// for budget accounting, not a precise measurement.
func estimateSize(value any) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		return int64(len(v))
	case []byte:
		return int64(len(v))
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return 8
	default:
		return 64
	}
}

var (
	_ Cache                = (*SoftCache)(nil)
	_ SizeConfigurable     = (*SoftCache)(nil)
	_ PropertyConfigurable = (*SoftCache)(nil)
)
