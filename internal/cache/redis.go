package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"advisor/internal/core"
)

// DefaultRedisKeyPrefix is prepended to normalized queries to form Redis keys.
const DefaultRedisKeyPrefix = "advisor:rec:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379" or "redis://:password@host:6379/0")
	URL string

	// KeyPrefix namespaces the cache keys (defaults to "advisor:rec:")
	KeyPrefix string

	// TTL is the time-to-live for cached responses (defaults to 5 minutes)
	TTL time.Duration
}

// RedisCache implements core.ResponseCache backed by Redis, for deployments
// with multiple advisor instances sharing one cache. Expiry is enforced
// server-side via key TTLs; the entry-count bound is left to Redis memory
// policy since a shared cache has no meaningful per-process insertion order.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed response cache and verifies the
// connection before returning.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	slog.Info("redis response cache connected", "prefix", prefix, "ttl", ttl)

	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

// Get returns the cached response for the key. Redis errors are logged and
// reported as a miss; the caller falls through to the remote path.
func (c *RedisCache) Get(ctx context.Context, key string) (*core.RecommendationResponse, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var resp core.RecommendationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		slog.Warn("redis cache entry unparseable", "key", key, "error", err)
		return nil, false
	}

	return &resp, true
}

// Put stores the response with the configured TTL. Failures are logged and
// otherwise ignored; caching is best-effort.
func (c *RedisCache) Put(ctx context.Context, key string, resp *core.RecommendationResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("failed to marshal response for redis cache", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		slog.Warn("redis cache put failed", "key", key, "error", err)
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
