package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// BlockingCache provides per-key mutual exclusion over loads. Each key has
// at most one unreleased gate at a time; the first Get to miss acquires the
// gate and is expected to populate the cache, while every other reader of
// that key blocks until the gate is released by a Put (or an explicit
// Remove). Operations on different keys proceed concurrently; same-key
// operations are ordered by gate acquisition.
//
// Caller contract: every Get miss must be paired with exactly one later Put
// or Remove for that key. A holder that re-enters Get for its own key, or
// never releases, deadlocks all other readers of that key (bounded only by
// the configured timeout). That risk is part of the design; the intended
// caller is TransactionalCache, whose commit and rollback paths guarantee
// the release.
type BlockingCache struct {
	delegate Cache
	timeout  time.Duration
	locks    *xsync.MapOf[string, chan struct{}]
}

// NewBlockingCache wraps delegate. The default timeout of zero blocks
// indefinitely (until ctx is done).
func NewBlockingCache(delegate Cache) *BlockingCache {
	return &BlockingCache{
		delegate: delegate,
		locks:    xsync.NewMapOf[string, chan struct{}](),
	}
}

// SetTimeout bounds how long Get waits for a held gate. Zero means no bound.
func (c *BlockingCache) SetTimeout(d time.Duration) {
	c.timeout = d
}

func (c *BlockingCache) ID() string { return c.delegate.ID() }

func (c *BlockingCache) Size() int { return c.delegate.Size() }

// Put delegates the write and then releases the key's gate on all paths,
// including a failed delegate write.
func (c *BlockingCache) Put(ctx context.Context, key string, value any) error {
	err := c.delegate.Put(ctx, key, value)
	if rerr := c.release(key); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// Get acquires the key's gate, then queries the delegate. On a hit the gate
// is released immediately so concurrent readers can proceed. On a miss the
// gate stays held: the caller owns the load and must Put or Remove the key.
func (c *BlockingCache) Get(ctx context.Context, key string) (any, bool, error) {
	if err := c.acquire(ctx, key); err != nil {
		return nil, false, err
	}
	value, ok, err := c.delegate.Get(ctx, key)
	if err != nil {
		// The gate stays held; the caller decides via Put or Remove.
		return nil, false, err
	}
	if ok {
		if rerr := c.release(key); rerr != nil {
			return nil, false, rerr
		}
		return value, true, nil
	}
	return nil, false, nil
}

// Remove releases the held gate for key without touching the delegate. It
// exists for callers that acquired a gate through a miss but decided not to
// populate the cache. Releasing a gate that is not held is a protocol
// violation and fails with ErrLockNotHeld.
func (c *BlockingCache) Remove(_ context.Context, key string) error {
	return c.release(key)
}

func (c *BlockingCache) Clear(ctx context.Context) error {
	return c.delegate.Clear(ctx)
}

// ApplyProperties recognizes "timeoutMillis" (int64).
func (c *BlockingCache) ApplyProperties(props map[string]string) error {
	ms, ok, err := int64Property(props, "timeoutMillis")
	if err != nil {
		return err
	}
	if ok {
		c.SetTimeout(time.Duration(ms) * time.Millisecond)
	}
	return nil
}

// acquire installs this caller's gate for key, waiting out any existing
// holder. Returning nil means the caller now holds the gate.
func (c *BlockingCache) acquire(ctx context.Context, key string) error {
	gate := make(chan struct{})
	for {
		held, loaded := c.locks.LoadOrStore(key, gate)
		if !loaded {
			return nil
		}
		if err := c.wait(ctx, key, held); err != nil {
			return err
		}
	}
}

// wait blocks until the held gate is released, the timeout elapses, or ctx
// is done. A timed-out wait has no side effects and does not consume the
// gate.
func (c *BlockingCache) wait(ctx context.Context, key string, held chan struct{}) error {
	if c.timeout <= 0 {
		select {
		case <-held:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case <-held:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: key %q in cache %q after %s", ErrLockTimeout, key, c.delegate.ID(), c.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *BlockingCache) release(key string) error {
	gate, held := c.locks.LoadAndDelete(key)
	if !held {
		return fmt.Errorf("%w: key %q in cache %q", ErrLockNotHeld, key, c.delegate.ID())
	}
	close(gate)
	return nil
}

var (
	_ Cache                = (*BlockingCache)(nil)
	_ PropertyConfigurable = (*BlockingCache)(nil)
)
