package cache

import (
	"context"
	"testing"
)

func TestPerpetualCache_PutGet(t *testing.T) {
	c := NewPerpetualCache("test")
	ctx := context.Background()

	if err := c.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	value, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if value != "v" {
		t.Errorf("Get() = %v, want %q", value, "v")
	}
}

func TestPerpetualCache_GetMiss(t *testing.T) {
	c := NewPerpetualCache("test")

	value, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Errorf("Get() = %v, ok = true, want miss", value)
	}
}

// A stored nil is a present entry, not an absence.
func TestPerpetualCache_NilValuePresent(t *testing.T) {
	c := NewPerpetualCache("test")
	ctx := context.Background()

	if err := c.Put(ctx, "k", nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	value, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want present nil entry")
	}
	if value != nil {
		t.Errorf("Get() = %v, want nil", value)
	}
}

func TestPerpetualCache_Remove(t *testing.T) {
	c := NewPerpetualCache("test")
	ctx := context.Background()

	_ = c.Put(ctx, "k", "v")
	if err := c.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() after Remove() ok = true, want miss")
	}

	// Removing an absent key is idempotent.
	if err := c.Remove(ctx, "k"); err != nil {
		t.Errorf("Remove() of absent key error = %v", err)
	}
}

func TestPerpetualCache_SizeAndClear(t *testing.T) {
	c := NewPerpetualCache("test")
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_ = c.Put(ctx, key, key)
	}
	if got := c.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := c.Size(); got != 0 {
		t.Errorf("Size() after Clear() = %d, want 0", got)
	}
}

func TestPerpetualCache_ID(t *testing.T) {
	c := NewPerpetualCache("orders")
	if got := c.ID(); got != "orders" {
		t.Errorf("ID() = %q, want %q", got, "orders")
	}
}
