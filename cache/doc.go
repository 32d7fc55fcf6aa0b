// Package cache provides a composable, policy-driven in-memory cache built
// as a chain of decorators, plus a per-transaction write buffer with
// commit/rollback semantics.
//
// A chain is assembled by Builder from a base store (PerpetualCache by
// default) and a set of decorators: eviction (LRU, FIFO), memory pressure
// (Weak, Soft), lazy scheduled clearing, value serialization, hit/miss
// logging, coarse synchronization, and per-key blocking. The standard
// decorator order applied by Builder is load-bearing; see Builder.Build.
//
// TransactionalCache buffers writes against a built chain and flushes them
// on Commit, cooperating with BlockingCache's lock-release protocol so that
// read misses never leave a key gate held across transaction boundaries.
package cache
