// Package cache provides a bounded, expiring key/value cache. The dashboard
// keeps one session store per browser in it.
package cache

import (
	"sync"
	"time"
)

// entry wraps a value with expiry and recency tracking.
type entry[V any] struct {
	value   V
	expiry  time.Time
	usedIdx int64
}

// Cache is a TTL cache with a capacity limit. Reads extend an entry's life, and
// when full the least recently used entry is evicted. Safe for concurrent use.
type Cache[V any] struct {
	mu         sync.Mutex
	items      map[string]*entry[V]
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
	onEvict    func(key string, value V)
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClock overrides time.Now.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// WithEvictHandler is called, outside the lock, for every entry removed by
// expiry or capacity.
func WithEvictHandler[V any](fn func(key string, value V)) Option[V] {
	return func(c *Cache[V]) { c.onEvict = fn }
}

// New creates a cache. maxEntries <= 0 means unbounded.
func New[V any](ttl time.Duration, maxEntries int, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		items:      make(map[string]*entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if present and not expired, and extends its life.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	e, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}
	now := c.now()
	if now.After(e.expiry) {
		delete(c.items, key)
		c.mu.Unlock()
		c.evicted(key, e.value)
		return zero, false
	}
	e.expiry = now.Add(c.ttl)
	e.usedIdx = c.nextIdx
	c.nextIdx++
	c.mu.Unlock()

	return e.value, true
}

// Set stores value under key, evicting the least recently used entry if full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	e := &entry[V]{
		value:   value,
		expiry:  c.now().Add(c.ttl),
		usedIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		c.mu.Unlock()
		return
	}

	var victimKey string
	var victim *entry[V]
	if c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		victimKey, victim = c.evictOldest()
	}
	c.items[key] = e
	c.mu.Unlock()

	if victim != nil {
		c.evicted(victimKey, victim.value)
	}
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge removes every expired entry and returns how many were removed.
func (c *Cache[V]) Purge() int {
	type removed struct {
		key   string
		value V
	}
	var gone []removed

	c.mu.Lock()
	now := c.now()
	for key, e := range c.items {
		if now.After(e.expiry) {
			gone = append(gone, removed{key, e.value})
			delete(c.items, key)
		}
	}
	c.mu.Unlock()

	for _, r := range gone {
		c.evicted(r.key, r.value)
	}
	return len(gone)
}

// evictOldest removes the least recently used entry. Must be called with mu held.
func (c *Cache[V]) evictOldest() (string, *entry[V]) {
	var oldestKey string
	var oldest *entry[V]

	for key, e := range c.items {
		if oldest == nil || e.usedIdx < oldest.usedIdx {
			oldest = e
			oldestKey = key
		}
	}

	if oldest != nil {
		delete(c.items, oldestKey)
	}
	return oldestKey, oldest
}

func (c *Cache[V]) evicted(key string, value V) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
