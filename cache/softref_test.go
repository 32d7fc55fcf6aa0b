package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestSoftCache_ReclaimsOldestUnderBudget(t *testing.T) {
	c := NewSoftCache(NewPerpetualCache("test"))
	c.SetSize(0) // no hard retention, so nothing is pinned
	c.SetBudget(3 * (100 + entryOverheadBytes))
	ctx := context.Background()

	payload := strings.Repeat("x", 100)
	for i := 0; i < 5; i++ {
		_ = c.Put(ctx, fmt.Sprintf("k%d", i), payload)
	}

	// Reclamation is eventual: removed from the delegate at the next drain.
	if _, ok, _ := c.Get(ctx, "k0"); ok {
		t.Error("Get(k0) ok = true, want reclaimed under pressure")
	}
	if _, ok, _ := c.Get(ctx, "k4"); !ok {
		t.Error("Get(k4) ok = false, want newest entry retained")
	}
}

func TestSoftCache_EntryCapTriggersReclamation(t *testing.T) {
	c := NewSoftCache(NewPerpetualCache("test"))
	c.SetSize(0)
	c.SetMaxEntries(3)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_ = c.Put(ctx, fmt.Sprintf("k%d", i), i)
	}

	if _, ok, _ := c.Get(ctx, "k0"); ok {
		t.Error("Get(k0) ok = true, want reclaimed by entry cap")
	}
	if _, ok, _ := c.Get(ctx, "k5"); !ok {
		t.Error("Get(k5) ok = false, want retained")
	}
	if got := c.Size(); got > 3 {
		t.Errorf("Size() = %d, want <= 3", got)
	}
}

func TestSoftCache_RingPinProtectsFromPressure(t *testing.T) {
	c := NewSoftCache(NewPerpetualCache("test"))
	c.SetMaxEntries(2)
	ctx := context.Background()

	_ = c.Put(ctx, "pinned", "v")
	if _, ok, _ := c.Get(ctx, "pinned"); !ok { // fetch pins it in the ring
		t.Fatal("Get(pinned) ok = false, want hit")
	}

	for i := 0; i < 5; i++ {
		_ = c.Put(ctx, fmt.Sprintf("filler%d", i), i)
	}

	if _, ok, _ := c.Get(ctx, "pinned"); !ok {
		t.Error("Get(pinned) ok = false, want ring pin to survive pressure")
	}
}

func TestSoftCache_UnderBudgetKeepsEverything(t *testing.T) {
	c := NewSoftCache(NewPerpetualCache("test"))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_ = c.Put(ctx, fmt.Sprintf("k%d", i), i)
	}
	for i := 0; i < 10; i++ {
		if _, ok, _ := c.Get(ctx, fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("Get(k%d) ok = false, want retained under budget", i)
		}
	}
}

func TestSoftCache_RemoveReleasesAccounting(t *testing.T) {
	c := NewSoftCache(NewPerpetualCache("test"))
	c.SetSize(0)
	c.SetBudget(2 * (100 + entryOverheadBytes))
	ctx := context.Background()

	payload := strings.Repeat("x", 100)
	_ = c.Put(ctx, "a", payload)
	_ = c.Put(ctx, "b", payload)
	_ = c.Remove(ctx, "a")

	// The freed budget admits a new entry without evicting "b".
	_ = c.Put(ctx, "c", payload)
	if _, ok, _ := c.Get(ctx, "b"); !ok {
		t.Error("Get(b) ok = false, want retained after Remove freed budget")
	}
}

func TestSoftCache_ClearResetsAccounting(t *testing.T) {
	c := NewSoftCache(NewPerpetualCache("test"))
	c.SetSize(0)
	c.SetMaxEntries(2)
	ctx := context.Background()

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	_ = c.Put(ctx, "c", 3)
	_ = c.Put(ctx, "d", 4)
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Error("Get(c) ok = false, want retained after Clear reset accounting")
	}
}

func TestSoftCache_ApplyProperties(t *testing.T) {
	c := NewSoftCache(NewPerpetualCache("test"))
	err := c.ApplyProperties(map[string]string{
		"size":        "4",
		"budgetBytes": "1048576",
		"maxEntries":  "128",
	})
	if err != nil {
		t.Fatalf("ApplyProperties() error = %v", err)
	}
	if c.budget != 1048576 {
		t.Errorf("budget = %d, want 1048576", c.budget)
	}
	if c.maxEntries != 128 {
		t.Errorf("maxEntries = %d, want 128", c.maxEntries)
	}

	if err := c.ApplyProperties(map[string]string{"budgetBytes": "big"}); err == nil {
		t.Error("ApplyProperties() error = nil, want parse failure")
	}
}
