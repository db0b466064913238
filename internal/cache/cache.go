package cache

import "sync"

// Cache is an LRU cache bounded by the summed cost of its entries.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*lruNode[K, V]
	list    lruList[K, V]
	budget  int64
	cost    int64

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding entries up to a total cost of budget.
// A budget <= 0 disables the cache: Add stores nothing.
func New[K comparable, V any](budget int64) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*lruNode[K, V]),
		budget:  budget,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.list.moveToFront(node)
	return node.value, true
}

// Add stores value under key, replacing any previous entry, and evicts
// old entries until the cache fits its budget. It reports whether the
// value was stored.
func (c *Cache[K, V]) Add(key K, value V, cost int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(old)
	}
	if c.budget <= 0 || cost < 0 || cost > c.budget {
		return false
	}

	node := &lruNode[K, V]{key: key, value: value, cost: cost}
	c.entries[key] = node
	c.list.pushFront(node)
	c.cost += cost

	for c.cost > c.budget {
		c.remove(c.list.oldest())
		c.evictions++
	}
	return true
}

// Remove deletes key and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if ok {
		c.remove(node)
	}
	return ok
}

// Clear removes all entries. Counters are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.list.clear()
	c.cost = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.len
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       c.list.len,
		Cost:      c.cost,
		Budget:    c.budget,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// remove unlinks node. Caller must hold c.mu.
func (c *Cache[K, V]) remove(node *lruNode[K, V]) {
	c.list.unlink(node)
	delete(c.entries, node.key)
	c.cost -= node.cost
}

// Stats contains cache statistics.
type Stats struct {
	Len    int
	Cost   int64
	Budget int64

	Hits      uint64
	Misses    uint64
	Evictions uint64
	// HitRate is hits over lookups, 0 before the first lookup.
	HitRate float64
}
