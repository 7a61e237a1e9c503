// Package cache keeps recently assembled outlines in memory so repeat
// submissions of the same document bytes skip the extraction pipeline.
package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/bwrigley/docoutline/internal/outline"
)

// ResultCache is a TTL-bounded cache of assembled outlines keyed by
// content hash.
type ResultCache struct {
	inner *ttlcache.Cache[string, *outline.Result]
}

// New creates a cache holding at most capacity entries, each living for ttl.
// Expired entries are evicted by a background loop; call Stop to end it.
func New(capacity uint64, ttl time.Duration) *ResultCache {
	c := ttlcache.New[string, *outline.Result](
		ttlcache.WithTTL[string, *outline.Result](ttl),
		ttlcache.WithCapacity[string, *outline.Result](capacity),
	)
	go c.Start()
	return &ResultCache{inner: c}
}

// Key derives the cache key for raw document bytes.
func Key(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// Get returns the cached result for a key, if present and unexpired.
func (c *ResultCache) Get(key string) (*outline.Result, bool) {
	item := c.inner.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Put stores a result under a key with the default TTL.
func (c *ResultCache) Put(key string, res *outline.Result) {
	c.inner.Set(key, res, ttlcache.DefaultTTL)
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	return c.inner.Len()
}

// Stop ends the background eviction loop.
func (c *ResultCache) Stop() {
	c.inner.Stop()
}
