package content

import (
	"context"
	"sync"
	"time"
)

type cacheKey struct {
	collection string
	locale     string
}

type cacheEntry struct {
	docs    []Document
	fetched time.Time
}

// ListCache is an in-memory cache of collection listings with TTL. Each
// (collection, locale) pair is loaded and expires independently.
type ListCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	src     Lister
	now     func() time.Time
}

// NewListCache creates a ListCache backed by the given Lister.
func NewListCache(src Lister, ttl time.Duration) *ListCache {
	return &ListCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		src:     src,
		now:     time.Now,
	}
}

func (c *ListCache) valid(e cacheEntry, ok bool) bool {
	return ok && c.now().Sub(e.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ListCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry)
	c.mu.Unlock()
}

// ListDocuments returns the cached listing, loading it from the backing
// Lister when missing or expired. It tries a read lock first and only takes
// the write lock when a reload is needed. Failed loads are not cached.
func (c *ListCache) ListDocuments(ctx context.Context, collection, locale string) ([]Document, error) {
	key := cacheKey{collection, locale}

	c.mu.RLock()
	e, ok := c.entries[key]
	if c.valid(e, ok) {
		c.mu.RUnlock()
		return e.docs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; c.valid(e, ok) {
		return e.docs, nil
	}
	docs, err := c.src.ListDocuments(ctx, collection, locale)
	if err != nil {
		return nil, err
	}
	c.entries[key] = cacheEntry{docs: docs, fetched: c.now()}
	return docs, nil
}
