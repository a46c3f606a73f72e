package cache

import (
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	if got, ok := c.Get("a"); !ok || got != "1" {
		t.Errorf("Get(a) = %q, %v; want 1, true", got, ok)
	}

	// "b" is now least recently used and gets evicted.
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) should miss after eviction")
	}
	if got, ok := c.Get("c"); !ok || got != "3" {
		t.Errorf("Get(c) = %q, %v; want 3, true", got, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("k", 42)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get(k) should miss after TTL")
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("k", 1)
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Error("Get(k) should miss after Delete")
	}
}

func TestManager_SweepsRegisteredCaches(t *testing.T) {
	c := NewLRUCache[int](10, 5*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for c.Size() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("sweep never removed expired entries, Size() = %d", c.Size())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManager_StopWaitsForSweep(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](10, time.Minute))
	m.StartCleanup(time.Hour)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the sweep goroutine exited")
	}
}
