package cache

import (
	"context"

	"github.com/jonwraymond/cachekit/telemetry"
)

// TransactionalCache buffers writes against one built chain for the span of
// a transaction. Reads pass through to the chain; writes stay local until
// Commit flushes them (all-or-nothing from the chain's point of view) or
// Rollback discards them. After either transition the buffer resets and the
// instance is reusable for the next transaction on the same chain.
//
// The missed-key set exists for the blocking decorator: every read miss may
// have left a key gate held below, so Commit writes an explicit nil entry
// for each missed-never-written key and Rollback releases the gates
// directly. Without this, a transaction that misses and then ends would
// leave later readers of those keys blocked.
type TransactionalCache struct {
	delegate      Cache
	logger        telemetry.Logger
	clearOnCommit bool
	pending       map[string]any
	missed        map[string]struct{}
}

// NewTransactionalCache starts an active transaction buffer over delegate.
// A nil logger disables rollback-unlock warnings.
func NewTransactionalCache(delegate Cache, logger telemetry.Logger) *TransactionalCache {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	return &TransactionalCache{
		delegate: delegate,
		logger:   logger,
		pending:  make(map[string]any),
		missed:   make(map[string]struct{}),
	}
}

func (c *TransactionalCache) ID() string { return c.delegate.ID() }

func (c *TransactionalCache) Size() int { return c.delegate.Size() }

// Get queries the underlying chain directly; buffered writes are never
// visible to reads within the same transaction. Misses are recorded so
// their key gates can be released at commit or rollback. While a clear is
// pending, every read reports absent regardless of chain contents.
func (c *TransactionalCache) Get(ctx context.Context, key string) (any, bool, error) {
	value, ok, err := c.delegate.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		c.missed[key] = struct{}{}
	}
	if c.clearOnCommit {
		return nil, false, nil
	}
	return value, ok, nil
}

// Put buffers the write; nothing reaches the underlying chain until Commit.
func (c *TransactionalCache) Put(_ context.Context, key string, value any) error {
	c.pending[key] = value
	return nil
}

// Remove is a no-op: mid-transaction removal of the underlying cache is not
// supported. Use Clear to discard the cache at commit.
func (c *TransactionalCache) Remove(_ context.Context, _ string) error {
	return nil
}

// Clear marks the transaction clear-pending and discards buffered writes.
// The underlying chain is untouched until Commit.
func (c *TransactionalCache) Clear(_ context.Context) error {
	c.clearOnCommit = true
	c.pending = make(map[string]any)
	return nil
}

// Commit applies the transaction: a pending clear first, then every
// buffered write, then an explicit nil entry for each key that was read and
// missed but never written. The nil writes carry no data; they exist so the
// blocking decorator's release-on-put fires for gates this transaction
// still holds. The buffer resets afterward.
func (c *TransactionalCache) Commit(ctx context.Context) error {
	if c.clearOnCommit {
		if err := c.delegate.Clear(ctx); err != nil {
			return err
		}
	}
	if err := c.flushPending(ctx); err != nil {
		return err
	}
	c.reset()
	return nil
}

// Rollback releases the key gate for every recorded miss and discards the
// buffer. Unlock failures are logged and swallowed: a failed release must
// not cascade into unrelated transactions. No writes reach the chain.
func (c *TransactionalCache) Rollback(ctx context.Context) error {
	c.unlockMissed(ctx)
	c.reset()
	return nil
}

func (c *TransactionalCache) flushPending(ctx context.Context) error {
	for key, value := range c.pending {
		if err := c.delegate.Put(ctx, key, value); err != nil {
			return err
		}
	}
	for key := range c.missed {
		if _, written := c.pending[key]; written {
			continue
		}
		if err := c.delegate.Put(ctx, key, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *TransactionalCache) unlockMissed(ctx context.Context) {
	for key := range c.missed {
		if err := c.delegate.Remove(ctx, key); err != nil {
			c.logger.Warn(ctx, "failed to release lock while rolling back",
				telemetry.Field{Key: "cache.id", Value: c.delegate.ID()},
				telemetry.Field{Key: "key", Value: key},
				telemetry.Field{Key: "error", Value: err.Error()},
			)
		}
	}
}

func (c *TransactionalCache) reset() {
	c.clearOnCommit = false
	c.pending = make(map[string]any)
	c.missed = make(map[string]struct{})
}

var _ Transactional = (*TransactionalCache)(nil)
