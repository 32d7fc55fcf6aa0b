package cache

import "context"

// Cache is the contract shared by base stores and every decorator.
//
// Contract:
//   - Keys are opaque strings; values are opaque. A stored nil value is a
//     present entry with a nil payload, not an absence.
//   - Get returns (value, true, nil) on a hit and (nil, false, nil) on a
//     miss. Errors are reserved for decorator policy failures (lock waits,
//     serialization); a plain miss never errors.
//   - Concurrency: implementations are NOT required to be safe for
//     concurrent use by themselves. Thread safety is layered on by
//     SynchronizedCache, never built into the stores below it.
//   - Ownership: a decorator owns exactly one inner Cache. Chains are
//     single-parent and acyclic; auxiliary state (indexes, rings, lock
//     tables) lives and dies with its decorator.
type Cache interface {
	// ID returns the stable identity of the logical cache.
	ID() string

	// Size returns the current entry count of the underlying store.
	Size() int

	// Put stores a value under key.
	Put(ctx context.Context, key string, value any) error

	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) (any, bool, error)

	// Remove discards the entry stored under key.
	// BlockingCache repurposes Remove as a pure lock release; see its docs.
	Remove(ctx context.Context, key string) error

	// Clear discards every entry.
	Clear(ctx context.Context) error
}

// Transactional is the buffer contract exposed to transaction-scoped
// callers: the full Cache surface plus the terminal transitions.
type Transactional interface {
	Cache

	// Commit flushes buffered writes to the underlying cache and resets
	// the buffer for reuse.
	Commit(ctx context.Context) error

	// Rollback discards buffered writes, releasing any key gates held on
	// behalf of this transaction, and resets the buffer for reuse.
	Rollback(ctx context.Context) error
}

// Initializable is implemented by cache kinds that need a post-construction
// hook. Builder invokes Init after property application and aborts the build
// if it fails.
type Initializable interface {
	Init() error
}

// PropertyConfigurable is implemented by cache kinds that accept free-form
// string properties from Builder. Implementations parse the values they
// recognize into typed settings and ignore unknown keys; a malformed value
// fails with a PropertyError.
type PropertyConfigurable interface {
	ApplyProperties(props map[string]string) error
}

// SizeConfigurable is implemented by decorators with a tunable capacity
// (eviction bounds, hard-retention rings). Builder routes its Size setting
// to the outermost decorator that accepts one.
type SizeConfigurable interface {
	SetSize(n int)
}
