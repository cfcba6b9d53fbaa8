// Package cache provides a get-or-compute memoizing cache with an optional
// least-recently-used bound.
package cache

import (
	"container/list"
	"sync"
)

// Cache memoizes computed values by key. The zero value is not usable; use New.
// A Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List
	entries    map[K]*list.Element

	hits      uint64
	misses    uint64
	evictions uint64
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New creates a cache holding at most maxEntries values. Zero or negative
// means unbounded.
func New[K comparable, V any](maxEntries int) *Cache[K, V] {
	return &Cache[K, V]{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[K]*list.Element),
	}
}

// GetOrSet returns the cached value for key, computing and storing it on a
// miss. compute runs without the lock held, so two concurrent misses on the
// same key may both compute; the first stored value wins.
func (c *Cache[K, V]) GetOrSet(key K, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}

	value := compute()

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entry[K, V]).value
	}

	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	c.evict()
	return value
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Reset drops every entry and zeroes the counters.
func (c *Cache[K, V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.entries)
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// SetMaxEntries changes the bound, evicting immediately if needed.
func (c *Cache[K, V]) SetMaxEntries(maxEntries int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxEntries = maxEntries
	c.evict()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// evict must be called with c.mu held.
func (c *Cache[K, V]) evict() {
	if c.maxEntries <= 0 {
		return
	}
	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry[K, V]).key)
		c.evictions++
	}
}
