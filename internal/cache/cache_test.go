package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCache_SetGetExpiry(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](0)
	defer c.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "b", 2, 0)

	if v, ok := c.Get(ctx, "a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected a to be expired")
	}
	if v, ok := c.Get(ctx, "b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v; entries without ttl never expire", v, ok)
	}

	c.sweep()
	if c.Len() != 1 {
		t.Errorf("Len after sweep = %d, want 1", c.Len())
	}
}

func TestCache_GetOrLoad(t *testing.T) {
	ctx := context.Background()
	c := New[string, string](0)
	defer c.Close()

	loads := 0
	load := func(context.Context) (string, error) {
		loads++
		return "pool", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad(ctx, "k", time.Hour, load)
		if err != nil || v != "pool" {
			t.Fatalf("GetOrLoad = %q, %v", v, err)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}

	_, err := c.GetOrLoad(ctx, "bad", time.Hour, func(context.Context) (string, error) {
		return "", errors.New("rpc down")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := c.Get(ctx, "bad"); ok {
		t.Error("errors must not be cached")
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New[int, int](time.Millisecond)
	defer c.Close()

	c.Set(ctx, 1, 1, 0)
	c.Delete(ctx, 1)
	if _, ok := c.Get(ctx, 1); ok {
		t.Error("expected deleted")
	}
}
