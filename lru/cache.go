// Package lru provides an in-memory response cache with per-entry expiry,
// backed by hashicorp/golang-lru.
package lru

import (
	"sync/atomic"
	"time"

	"github.com/fwojciec/siteask"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults for the cache.
const (
	DefaultSize = 1000
	DefaultTTL  = time.Hour
)

// Ensure Cache implements siteask.Cache at compile time.
var _ siteask.Cache = (*Cache)(nil)

// Cache implements siteask.Cache. Entries expire after the TTL and the
// least recently used entry is evicted when the cache is full.
type Cache struct {
	lru    *expirable.LRU[string, *siteask.Response]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates a Cache holding up to size entries for ttl each.
// Non-positive arguments select the defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: expirable.NewLRU[string, *siteask.Response](size, nil, ttl)}
}

// Get returns a copy of the cached response for key.
func (c *Cache) Get(key string) (*siteask.Response, bool) {
	resp, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return resp.Clone(), true
}

// Set stores a copy of resp under key, replacing any previous entry.
func (c *Cache) Set(key string, resp *siteask.Response) {
	if resp == nil {
		return
	}
	c.lru.Add(key, resp.Clone())
}

// Flush removes every entry. Hit and miss counters are kept.
func (c *Cache) Flush() {
	c.lru.Purge()
}

// Stats reports the number of live entries and lookup counters.
func (c *Cache) Stats() siteask.CacheStats {
	return siteask.CacheStats{
		Keys:   c.lru.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
