package cache

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultCapacity is the number of entries kept by the reference and transformer caches
const DefaultCapacity = 32

// Stats reports the activity of a cache since it was created
type Stats struct {
	Capacity  int
	Entries   int
	Hits      int
	Misses    int
	Evictions int
}

// LRU is a fixed capacity key/value cache that evicts the least recently used entry
// once an insertion would exceed its capacity.
//
// All methods are safe for concurrent use. GetOrLoad holds the cache lock while the
// loader runs, so a value is never computed twice for the same key.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	entries   *lru.Cache
	keys      map[K]struct{}
	hits      int
	misses    int
	evictions int
}

// Builds an empty cache holding at most capacity entries. A capacity below 1 is raised to 1.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	c := &LRU[K, V]{
		capacity: capacity,
		entries:  lru.New(capacity),
		keys:     make(map[K]struct{}, capacity),
	}
	c.entries.OnEvicted = func(key lru.Key, _ interface{}) {
		delete(c.keys, key.(K))
		c.evictions++
	}
	return c
}

// Get returns the value stored for key and marks it as most recently used
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

// Add stores value for key, evicting the least recently used entry when full
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(key, value)
}

// GetOrLoad returns the cached value for key or, on a miss, calls load and caches its
// result. Errors returned by load are not cached. The boolean reports a cache hit.
func (c *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, ok := c.get(key); ok {
		return value, true, nil
	}

	value, err := load()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.add(key, value)
	return value, false, nil
}

// Contains reports whether key is cached without changing its recency
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.keys[key]
	return ok
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Purge drops every entry. Purged entries are not counted as evictions.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	evictions := c.evictions
	c.entries.Clear()
	c.keys = make(map[K]struct{}, c.capacity)
	c.evictions = evictions
}

func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Capacity:  c.capacity,
		Entries:   c.entries.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *LRU[K, V]) get(key K) (V, bool) {
	if value, ok := c.entries.Get(key); ok {
		c.hits++
		return value.(V), true
	}
	c.misses++
	var zero V
	return zero, false
}

func (c *LRU[K, V]) add(key K, value V) {
	c.keys[key] = struct{}{}
	c.entries.Add(key, value)
}
