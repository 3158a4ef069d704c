package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func TestCache_GetSet(t *testing.T) {
	c := New[string](5*time.Second, 100)

	c.Set("session-1", "state")
	got, ok := c.Get("session-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "state" {
		t.Errorf("expected state, got %s", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New[int](5*time.Second, 100)

	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected cache miss for nonexistent key")
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	clk := newClock()
	c := New[int](time.Minute, 100, WithClock[int](clk.Now))

	c.Set("a", 1)
	clk.Advance(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected cache hit before expiry")
	}

	clk.Advance(61 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("expected cache miss after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry removed, got len %d", c.Len())
	}
}

func TestCache_GetExtendsLife(t *testing.T) {
	clk := newClock()
	c := New[int](time.Minute, 100, WithClock[int](clk.Now))

	c.Set("a", 1)
	for i := 0; i < 5; i++ {
		clk.Advance(45 * time.Second)
		if _, ok := c.Get("a"); !ok {
			t.Fatalf("expected hit on read %d", i)
		}
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[int](time.Minute, 2, WithEvictHandler(func(key string, _ int) {
		evicted = append(evicted, key)
	}))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a kept after recent read")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c stored")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Errorf("expected eviction of b, got %v", evicted)
	}
}

func TestCache_UpdateExistingDoesNotEvict(t *testing.T) {
	c := New[int](time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("expected updated value 10, got %d", v)
	}
}

func TestCache_Unbounded(t *testing.T) {
	c := New[int](time.Minute, 0)
	for i := 0; i < 50; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	if c.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", c.Len())
	}
}

func TestCache_Purge(t *testing.T) {
	clk := newClock()
	c := New[int](time.Minute, 100, WithClock[int](clk.Now))

	c.Set("old", 1)
	clk.Advance(2 * time.Minute)
	c.Set("new", 2)

	if n := c.Purge(); n != 1 {
		t.Errorf("expected 1 purged, got %d", n)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 live entry, got %d", c.Len())
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("expected unexpired entry to survive purge")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute, 20)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%30)
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() > 20 {
		t.Errorf("expected at most 20 entries, got %d", c.Len())
	}
}
