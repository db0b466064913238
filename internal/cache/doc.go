// Package cache provides a cost-bounded LRU cache for rendered frames.
//
//	c := cache.New[key, *frame](64 << 20)
//	c.Add(k, f, int64(len(f.data)))
//	f, ok := c.Get(k)
//
// Entries are evicted least recently used first until the total cost fits
// the budget. An entry costing more than the whole budget is not stored.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
