package cache

import (
	"context"
	"sync"
	"time"

	"advisor/internal/core"
)

// MemoryCache implements core.ResponseCache with a bounded, time-expiring
// in-process map. Eviction is insertion-order (not LRU): entries are never
// promoted on read, and once the entry count exceeds the capacity the single
// oldest-inserted entry is removed.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	order      []string // insertion order, oldest first
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	response  *core.RecommendationResponse
	createdAt time.Time
}

// NewMemoryCache creates an in-memory response cache. Zero values for ttl
// and maxEntries select the defaults.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached response for the key. Expired entries are treated
// as absent; expiry is checked lazily here rather than by a sweeper.
func (c *MemoryCache) Get(_ context.Context, key string) (*core.RecommendationResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		return nil, false
	}
	return e.response, true
}

// Put inserts or overwrites the response for the key. Overwriting refreshes
// the timestamp but keeps the key's original insertion position.
func (c *MemoryCache) Put(_ context.Context, key string, resp *core.RecommendationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.response = resp
		e.createdAt = c.now()
		return
	}

	c.entries[key] = &memoryEntry{response: resp, createdAt: c.now()}
	c.order = append(c.order, key)

	if len(c.entries) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the number of physically resident entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close is a no-op for the in-memory cache.
func (c *MemoryCache) Close() error {
	return nil
}
