package cache

import "container/list"

// DefaultHardRetention is the default capacity of the hard-retention ring
// kept by the memory-pressure decorators.
const DefaultHardRetention = 256

// retentionRing is a bounded FIFO of recently fetched entries. It exists to
// hold strong references so the runtime cannot reclaim a value immediately
// after it was handed to a caller; entries age out as newer fetches push
// them off the end.
type retentionRing struct {
	capacity int
	order    *list.List // front = most recently kept
	counts   map[string]int
}

type ringEntry struct {
	key   string
	value any
}

func newRetentionRing(capacity int) *retentionRing {
	return &retentionRing{
		capacity: capacity,
		order:    list.New(),
		counts:   make(map[string]int),
	}
}

// Keep pins value at the front of the ring, aging out the oldest entry when
// the ring is full. A capacity of zero disables retention entirely.
func (r *retentionRing) Keep(key string, value any) {
	if r.capacity <= 0 {
		return
	}
	r.order.PushFront(ringEntry{key: key, value: value})
	r.counts[key]++
	if r.order.Len() > r.capacity {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		r.drop(oldest.Value.(ringEntry).key)
	}
}

// Holds reports whether any pinned entry for key is still in the ring.
func (r *retentionRing) Holds(key string) bool {
	return r.counts[key] > 0
}

// Resize sets the capacity and discards all pinned entries.
func (r *retentionRing) Resize(capacity int) {
	r.capacity = capacity
	r.Clear()
}

// Clear discards all pinned entries.
func (r *retentionRing) Clear() {
	r.order.Init()
	r.counts = make(map[string]int)
}

func (r *retentionRing) drop(key string) {
	if n := r.counts[key]; n > 1 {
		r.counts[key] = n - 1
	} else {
		delete(r.counts, key)
	}
}
