package cache

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"
)

func TestWeakCache_PutGetBeforeCollection(t *testing.T) {
	c := NewWeakCache(NewPerpetualCache("test"))
	ctx := context.Background()

	if err := c.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	value, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("Get() = %v, %v, %v, want v, true, nil", value, ok, err)
	}
}

// With hard retention disabled nothing pins the stored value, so the
// collector may reclaim it at any point after Put returns. The entry must
// eventually read as absent; the exact collection cycle is the runtime's
// business, so the test polls.
func TestWeakCache_EntriesEventuallyReclaimed(t *testing.T) {
	c := NewWeakCache(NewPerpetualCache("test"))
	c.SetSize(0)
	ctx := context.Background()

	if err := c.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		runtime.GC()
		if _, ok, _ := c.Get(ctx, "k"); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("entry was never reclaimed after repeated collections")
}

// A recently fetched value sits in the hard-retention ring and must survive
// collection until it ages out.
func TestWeakCache_RetentionRingPinsFetchedValues(t *testing.T) {
	c := NewWeakCache(NewPerpetualCache("test"))
	c.SetSize(8)
	ctx := context.Background()

	_ = c.Put(ctx, "k", "v")
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("Get() ok = false before any collection")
	}

	for i := 0; i < 3; i++ {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}

	value, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Errorf("Get() after GC = %v, %v, %v, want pinned v, true, nil", value, ok, err)
	}
}

func TestWeakCache_RemoveAndMiss(t *testing.T) {
	c := NewWeakCache(NewPerpetualCache("test"))
	ctx := context.Background()

	_ = c.Put(ctx, "k", "v")
	if err := c.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() ok = true after Remove")
	}
	if _, ok, _ := c.Get(ctx, "never"); ok {
		t.Error("Get() ok = true for never-stored key")
	}
}

func TestWeakCache_ClearDropsPins(t *testing.T) {
	c := NewWeakCache(NewPerpetualCache("test"))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("k%d", i)
		_ = c.Put(ctx, key, i)
		_, _, _ = c.Get(ctx, key)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := c.Size(); got != 0 {
		t.Errorf("Size() after Clear = %d, want 0", got)
	}
}

func TestWeakCache_OverwriteReplacesHolder(t *testing.T) {
	c := NewWeakCache(NewPerpetualCache("test"))
	ctx := context.Background()

	_ = c.Put(ctx, "k", "first")
	_ = c.Put(ctx, "k", "second")

	value, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || value != "second" {
		t.Errorf("Get() = %v, %v, %v, want second, true, nil", value, ok, err)
	}
}

func TestWeakCache_ApplyProperties(t *testing.T) {
	c := NewWeakCache(NewPerpetualCache("test"))
	if err := c.ApplyProperties(map[string]string{"size": "32"}); err != nil {
		t.Fatalf("ApplyProperties() error = %v", err)
	}
	if err := c.ApplyProperties(map[string]string{"size": "huge"}); err == nil {
		t.Error("ApplyProperties() error = nil, want parse failure")
	}
}
