package cache

import (
	"context"
	"testing"
	"time"
)

func TestScheduledCache_ClearsAfterInterval(t *testing.T) {
	c := NewScheduledCache(NewPerpetualCache("test"))
	c.SetClearInterval(time.Minute)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }

	_ = c.Put(ctx, "k", "v")
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("Get() ok = false before interval elapsed")
	}

	c.now = func() time.Time { return base.Add(61 * time.Second) }

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() ok = true after interval elapsed, want cleared")
	}
	if got := c.Size(); got != 0 {
		t.Errorf("Size() = %d after interval elapsed, want 0", got)
	}
}

func TestScheduledCache_SweepBeforeEveryOperation(t *testing.T) {
	c := NewScheduledCache(NewPerpetualCache("test"))
	c.SetClearInterval(time.Minute)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	_ = c.Put(ctx, "old", "v")

	// The due sweep runs ahead of the new write, so the new entry survives.
	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_ = c.Put(ctx, "fresh", "v")

	if _, ok, _ := c.Get(ctx, "old"); ok {
		t.Error("Get(old) ok = true, want swept")
	}
	if _, ok, _ := c.Get(ctx, "fresh"); !ok {
		t.Error("Get(fresh) ok = false, want retained")
	}
}

func TestScheduledCache_ExplicitClearResetsTimer(t *testing.T) {
	c := NewScheduledCache(NewPerpetualCache("test"))
	c.SetClearInterval(time.Minute)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	_ = c.Put(ctx, "k", "v")

	c.now = func() time.Time { return base.Add(50 * time.Second) }
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	_ = c.Put(ctx, "k2", "v")

	// 70s after base but only 20s after the explicit clear.
	c.now = func() time.Time { return base.Add(70 * time.Second) }
	if _, ok, _ := c.Get(ctx, "k2"); !ok {
		t.Error("Get(k2) ok = false, want retained until a full interval after Clear")
	}
}

func TestScheduledCache_ApplyProperties(t *testing.T) {
	c := NewScheduledCache(NewPerpetualCache("test"))
	if err := c.ApplyProperties(map[string]string{"clearIntervalMillis": "5000"}); err != nil {
		t.Fatalf("ApplyProperties() error = %v", err)
	}
	if got := c.ClearInterval(); got != 5*time.Second {
		t.Errorf("ClearInterval() = %v, want 5s", got)
	}

	if err := c.ApplyProperties(map[string]string{"clearIntervalMillis": "often"}); err == nil {
		t.Error("ApplyProperties() error = nil, want parse failure")
	}
}
