// Package memcache provides a small in-memory TTL cache used to
// memoize responses from external catalogs. Entries expire lazily: an
// expired entry is deleted on the next Get for its key, never swept in
// the background.
package memcache

import (
	"sync"
	"time"
)

// Clock returns the current time. Injectable so tests can simulate TTL
// expiry without sleeping.
type Clock func() time.Time

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a mutex-guarded map with per-cache TTL. The zero value is
// not usable; create instances with New or NewWithClock.
type Cache[V any] struct {
	ttl time.Duration
	now Clock

	mu      sync.Mutex
	entries map[string]entry[V]
}

// New creates a cache whose entries live for ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock creates a cache with a custom clock.
func NewWithClock[V any](ttl time.Duration, now Clock) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key. An entry whose age has reached
// the TTL is deleted and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, resetting its age.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
