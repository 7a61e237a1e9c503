package cache

import (
	"testing"
	"time"

	"github.com/bwrigley/docoutline/internal/outline"
)

func TestKey_ContentAddressed(t *testing.T) {
	a := Key([]byte("same bytes"))
	b := Key([]byte("same bytes"))
	c := Key([]byte("other bytes"))
	if a != b {
		t.Error("identical bytes must produce identical keys")
	}
	if a == c {
		t.Error("different bytes must produce different keys")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
}

func TestResultCache_PutGet(t *testing.T) {
	c := New(8, time.Minute)
	defer c.Stop()

	res := &outline.Result{Title: "Cached Doc"}
	key := Key([]byte("doc bytes"))

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss before put")
	}
	c.Put(key, res)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != res {
		t.Error("expected the same result pointer back")
	}
	if c.Len() != 1 {
		t.Errorf("expected length 1, got %d", c.Len())
	}
}

func TestResultCache_Expiry(t *testing.T) {
	c := New(8, 30*time.Millisecond)
	defer c.Stop()

	key := Key([]byte("short lived"))
	c.Put(key, &outline.Result{Title: "Ephemeral"})

	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expected entry to expire")
	}
}

func TestResultCache_CapacityEvicts(t *testing.T) {
	c := New(2, time.Minute)
	defer c.Stop()

	c.Put("k1", &outline.Result{Title: "One"})
	c.Put("k2", &outline.Result{Title: "Two"})
	c.Put("k3", &outline.Result{Title: "Three"})

	if c.Len() > 2 {
		t.Errorf("expected capacity bound of 2, got %d", c.Len())
	}
	if _, ok := c.Get("k3"); !ok {
		t.Error("expected most recent entry to survive eviction")
	}
}
