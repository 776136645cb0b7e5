// Package config provides configuration management for the application.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Cache   CacheConfig
	Storage StorageConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// GeminiConfig holds Google Gemini-specific configuration
type GeminiConfig struct {
	// APIKey may be empty; the service then runs fallback-only.
	APIKey  string
	Model   string
	BaseURL string
	// Timeout bounds each remote completion call.
	Timeout time.Duration
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	// Backend is "memory" (default) or "redis"
	Backend    string
	TTL        time.Duration
	MaxEntries int
	RedisURL   string
}

// StorageConfig holds history/favorites persistence configuration
type StorageConfig struct {
	// Type is "memory" (default), "sqlite", "postgresql", or "mongodb"
	Type             string
	SQLitePath       string
	PostgresURL      string
	PostgresMaxConns int
	MongoURL         string
	MongoDatabase    string
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled  bool
	Endpoint string
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	// Format is "json" (default) or "pretty"
	Format string
	// Level is "debug", "info", "warn", or "error"
	Level string
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	v := viper.New()

	// Load .env file (optional, won't fail if not found)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() //nolint:errcheck

	v.SetDefault("PORT", "8080")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("HTTP_TIMEOUT", "12s")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CACHE_MAX_ENTRIES", 20)
	v.SetDefault("STORAGE_TYPE", "memory")
	v.SetDefault("STORAGE_SQLITE_PATH", "data/advisor.db")
	v.SetDefault("STORAGE_POSTGRES_MAX_CONNS", 10)
	v.SetDefault("STORAGE_MONGO_DATABASE", "advisor")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_ENDPOINT", "/metrics")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			Model:   v.GetString("GEMINI_MODEL"),
			BaseURL: v.GetString("GEMINI_BASE_URL"),
			Timeout: v.GetDuration("HTTP_TIMEOUT"),
		},
		Cache: CacheConfig{
			Backend:    v.GetString("CACHE_BACKEND"),
			TTL:        v.GetDuration("CACHE_TTL"),
			MaxEntries: v.GetInt("CACHE_MAX_ENTRIES"),
			RedisURL:   v.GetString("REDIS_URL"),
		},
		Storage: StorageConfig{
			Type:             v.GetString("STORAGE_TYPE"),
			SQLitePath:       v.GetString("STORAGE_SQLITE_PATH"),
			PostgresURL:      v.GetString("STORAGE_POSTGRES_URL"),
			PostgresMaxConns: v.GetInt("STORAGE_POSTGRES_MAX_CONNS"),
			MongoURL:         v.GetString("STORAGE_MONGO_URL"),
			MongoDatabase:    v.GetString("STORAGE_MONGO_DATABASE"),
		},
		Metrics: MetricsConfig{
			Enabled:  v.GetBool("METRICS_ENABLED"),
			Endpoint: v.GetString("METRICS_ENDPOINT"),
		},
		Logging: LoggingConfig{
			Format: v.GetString("LOG_FORMAT"),
			Level:  v.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
