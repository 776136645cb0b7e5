// Package cache provides short-lived memoization of remote-derived
// recommendation responses, keyed by normalized query text.
// Supports both in-memory and Redis backends for multi-instance deployments.
package cache

import (
	"strings"
	"time"
)

const (
	// DefaultTTL is how long a cached response stays valid after insertion.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries bounds the cache size; inserting beyond it evicts
	// the oldest-inserted entry.
	DefaultMaxEntries = 20
)

// NormalizeQuery collapses queries differing only in case or surrounding
// whitespace to the same cache key. An empty result means the query was
// empty or whitespace-only.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
