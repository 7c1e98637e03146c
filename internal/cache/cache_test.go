package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestBalancesKey(t *testing.T) {
	a := BalancesKey("s1", 1000, false)
	b := BalancesKey("s1", 1001, false)
	c := BalancesKey("s1", 1000, true)
	if a == b || a == c || b == c {
		t.Errorf("keys must differ by timestamp and mode: %q %q %q", a, b, c)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("empty cache should miss")
	}
	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("entry should expire after ttl")
	}
}

func TestMemory_SweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	for i := 0; i < sweepThreshold; i++ {
		m.Set(ctx, BalancesKey("s", int64(i), false), []byte("v"))
	}
	now = now.Add(2 * time.Minute)
	m.Set(ctx, "fresh", []byte("v"))

	if len(m.entries) != 1 {
		t.Errorf("expected only the fresh entry to remain, got %d", len(m.entries))
	}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}
	c.Set(ctx, "k", []byte("v"))
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("noop cache should never hit")
	}
}

// TestRedis runs against a real server when REDIS_ADDR is set.
func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedis(ctx, addr, time.Minute)
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	defer c.Close()

	key := BalancesKey("test-session", time.Now().UnixNano(), true)
	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("fresh key should miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, key, []byte(`{"debts":[]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok || string(got) != `{"debts":[]}` {
		t.Errorf("Get = %q, %v, %v", got, ok, err)
	}
}
