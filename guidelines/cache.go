/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package guidelines

import (
	"sync"
	"time"
)

// DefaultTTL is how long a resolved aggregate stays fresh.
const DefaultTTL = 30 * time.Minute

// cacheKey identifies one resolved aggregate. Depth distinguishes partial
// expansions; the resolver only stores fully expanded aggregates at depth 0.
type cacheKey struct {
	Owner string
	Repo  string
	Depth int
}

type cacheEntry struct {
	doc      *Document
	storedAt time.Time
}

// Cache is a process-wide TTL cache for resolved guideline documents.
// Expiry is lazy: a stale entry is evicted on the lookup that finds it,
// never swept proactively. Entries are replaced wholesale, so concurrent
// analyses for the same repository may both miss and both fetch; the cache
// is best-effort, not authoritative.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[cacheKey]cacheEntry
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the cache's time source. Tests use this to control
// expiry deterministically.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a cache with the given TTL. A non-positive ttl falls
// back to DefaultTTL.
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[cacheKey]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) get(key cacheKey) (*Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.doc, true
}

func (c *Cache) put(key cacheKey, doc *Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{doc: doc, storedAt: c.now()}
}
