package engine

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds a cache created with a non-positive size.
const DefaultCacheSize = 128

// Cache keeps recent reports by fingerprint. When full, the least recently used
// entry is evicted. Reports are deep-copied in and out, so callers may modify what
// they receive.
type Cache struct {
	entries *lru.Cache[string, *Report]
}

// NewCache returns a cache holding at most size reports.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	entries, err := lru.New[string, *Report](size)
	if err != nil {
		panic(err)
	}
	return &Cache{entries: entries}
}

// Get returns a copy of the report stored under key.
func (c *Cache) Get(key string) (*Report, bool) {
	r, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return r.clone(), true
}

// Put stores a copy of r under key.
func (c *Cache) Put(key string, r *Report) {
	c.entries.Add(key, r.clone())
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	return c.entries.Len()
}
