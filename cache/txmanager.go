package cache

import (
	"context"

	"github.com/jonwraymond/cachekit/telemetry"
)

// TxManager routes operations for any number of logical caches through
// per-cache transaction buffers, creating each buffer on first use. One
// manager serves one session: it is not safe for concurrent use by multiple
// transactions, matching the exclusive ownership of the buffers it holds.
type TxManager struct {
	logger telemetry.Logger
	txs    map[Cache]*TransactionalCache
}

// NewTxManager creates an empty manager. A nil logger disables
// rollback-unlock warnings on the managed buffers.
func NewTxManager(logger telemetry.Logger) *TxManager {
	return &TxManager{
		logger: logger,
		txs:    make(map[Cache]*TransactionalCache),
	}
}

// Get reads key through c's transaction buffer.
func (m *TxManager) Get(ctx context.Context, c Cache, key string) (any, bool, error) {
	return m.tx(c).Get(ctx, key)
}

// Put buffers a write to c.
func (m *TxManager) Put(ctx context.Context, c Cache, key string, value any) error {
	return m.tx(c).Put(ctx, key, value)
}

// Clear marks c's buffer clear-pending.
func (m *TxManager) Clear(ctx context.Context, c Cache) error {
	return m.tx(c).Clear(ctx)
}

// Commit commits every managed buffer, stopping at the first failure.
func (m *TxManager) Commit(ctx context.Context) error {
	for _, tx := range m.txs {
		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Rollback rolls back every managed buffer.
func (m *TxManager) Rollback(ctx context.Context) error {
	for _, tx := range m.txs {
		if err := tx.Rollback(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *TxManager) tx(c Cache) *TransactionalCache {
	if tx, ok := m.txs[c]; ok {
		return tx
	}
	tx := NewTransactionalCache(c, m.logger)
	m.txs[c] = tx
	return tx
}
