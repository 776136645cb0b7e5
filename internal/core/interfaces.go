package core

import "context"

// Completer generates text from a prompt using a remote completion service.
type Completer interface {
	// Generate submits the prompt and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResponseCache memoizes remote-derived recommendation responses keyed by
// normalized query text. Implementations must be safe for concurrent use.
// A Get miss and an expired entry are indistinguishable to callers.
type ResponseCache interface {
	// Get returns the cached response for the key, or false if absent or expired.
	Get(ctx context.Context, key string) (*RecommendationResponse, bool)

	// Put inserts or overwrites the response for the key.
	Put(ctx context.Context, key string, resp *RecommendationResponse)

	// Close releases any resources held by the cache.
	Close() error
}

// Store persists search history and the favorites set.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveSearch records a search, keeping only the 20 newest entries.
	SaveSearch(ctx context.Context, rec SearchRecord) error

	// SearchHistory returns up to 20 records, newest first.
	SearchHistory(ctx context.Context) ([]SearchRecord, error)

	// ClearSearchHistory removes all history records.
	ClearSearchHistory(ctx context.Context) error

	// AddFavorite marks a product as favorite. Duplicate adds are no-ops.
	AddFavorite(ctx context.Context, productID string) error

	// RemoveFavorite unmarks a product. Removing a non-favorite is a no-op.
	RemoveFavorite(ctx context.Context, productID string) error

	// Favorites returns the favorite product IDs in insertion order.
	Favorites(ctx context.Context) ([]string, error)

	// IsFavorite reports whether the product is in the favorites set.
	IsFavorite(ctx context.Context, productID string) (bool, error)

	// Close releases all resources held by the store.
	Close() error
}
