package cache

import (
	"context"
	"time"
)

// DefaultClearInterval is used when no interval is configured.
const DefaultClearInterval = time.Hour

// ScheduledCache clears its delegate once a configured interval has elapsed.
// The timer is lazy: every operation first checks the elapsed time and
// performs the clear inline when it is due. There is no background
// goroutine, so no operation is delayed by more than the cost of one clear.
type ScheduledCache struct {
	delegate      Cache
	clearInterval time.Duration
	lastClear     time.Time
	now           func() time.Time
}

// NewScheduledCache wraps delegate with the default interval.
func NewScheduledCache(delegate Cache) *ScheduledCache {
	return &ScheduledCache{
		delegate:      delegate,
		clearInterval: DefaultClearInterval,
		lastClear:     time.Now(),
		now:           time.Now,
	}
}

// SetClearInterval sets the interval between lazy clears.
func (c *ScheduledCache) SetClearInterval(d time.Duration) {
	c.clearInterval = d
}

// ClearInterval reports the configured interval.
func (c *ScheduledCache) ClearInterval() time.Duration {
	return c.clearInterval
}

func (c *ScheduledCache) ID() string { return c.delegate.ID() }

func (c *ScheduledCache) Size() int {
	_ = c.clearWhenDue(context.Background())
	return c.delegate.Size()
}

func (c *ScheduledCache) Put(ctx context.Context, key string, value any) error {
	if err := c.clearWhenDue(ctx); err != nil {
		return err
	}
	return c.delegate.Put(ctx, key, value)
}

func (c *ScheduledCache) Get(ctx context.Context, key string) (any, bool, error) {
	if err := c.clearWhenDue(ctx); err != nil {
		return nil, false, err
	}
	return c.delegate.Get(ctx, key)
}

func (c *ScheduledCache) Remove(ctx context.Context, key string) error {
	if err := c.clearWhenDue(ctx); err != nil {
		return err
	}
	return c.delegate.Remove(ctx, key)
}

func (c *ScheduledCache) Clear(ctx context.Context) error {
	c.lastClear = c.now()
	return c.delegate.Clear(ctx)
}

// ApplyProperties recognizes "clearIntervalMillis" (int64).
func (c *ScheduledCache) ApplyProperties(props map[string]string) error {
	ms, ok, err := int64Property(props, "clearIntervalMillis")
	if err != nil {
		return err
	}
	if ok {
		c.SetClearInterval(time.Duration(ms) * time.Millisecond)
	}
	return nil
}

func (c *ScheduledCache) clearWhenDue(ctx context.Context) error {
	if c.now().Sub(c.lastClear) < c.clearInterval {
		return nil
	}
	return c.Clear(ctx)
}

var (
	_ Cache                = (*ScheduledCache)(nil)
	_ PropertyConfigurable = (*ScheduledCache)(nil)
)
