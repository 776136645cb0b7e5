// Package main is the entry point for the product advisor server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"advisor/config"
	"advisor/internal/advisor"
	"advisor/internal/cache"
	"advisor/internal/catalog"
	"advisor/internal/core"
	"advisor/internal/fallback"
	"advisor/internal/httpclient"
	"advisor/internal/logging"
	"advisor/internal/observability"
	"advisor/internal/providers/gemini"
	"advisor/internal/server"
	"advisor/internal/storage"
	"advisor/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	slog.Info("starting advisor",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	// Catalog failing to load is the one fatal startup error of the core.
	cat, err := catalog.Load()
	if err != nil {
		slog.Error("failed to load product catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("product catalog loaded", "products", cat.Len(), "categories", len(cat.Categories()))

	respCache, err := newResponseCache(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize response cache", "error", err)
		os.Exit(1)
	}
	defer respCache.Close()

	if cfg.Gemini.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set - every query will degrade to fallback recommendations")
	}
	httpClientCfg := httpclient.DefaultConfig()
	if cfg.Gemini.Timeout > 0 {
		httpClientCfg.Timeout = cfg.Gemini.Timeout
	}
	completer := gemini.NewWithHTTPClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, httpclient.New(&httpClientCfg))
	slog.Info("gemini client configured", "model", completer.Model(), "timeout", httpClientCfg.Timeout)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.New()
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	} else {
		slog.Info("prometheus metrics disabled")
	}

	svc := advisor.New(cat, respCache, completer, fallback.New(), metrics)

	store, err := storage.New(context.Background(), storageConfig(cfg.Storage))
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "type", cfg.Storage.Type)

	srv := server.New(server.NewHandler(svc, cat, store), &server.Config{
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
	})

	go func() {
		addr := ":" + cfg.Server.Port
		slog.Info("http server listening", "addr", addr)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level := parseLevel(cfg.Level)

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "pretty") {
		handler = logging.NewPrettyHandler(os.Stdout, level)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newResponseCache(cfg config.CacheConfig) (core.ResponseCache, error) {
	switch cfg.Backend {
	case "redis":
		return cache.NewRedisCache(cache.RedisConfig{
			URL: cfg.RedisURL,
			TTL: cfg.TTL,
		})
	case "memory", "":
		return cache.NewMemoryCache(cfg.TTL, cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (valid: memory, redis)", cfg.Backend)
	}
}

func storageConfig(cfg config.StorageConfig) storage.Config {
	return storage.Config{
		Type: cfg.Type,
		SQLite: storage.SQLiteConfig{
			Path: cfg.SQLitePath,
		},
		PostgreSQL: storage.PostgreSQLConfig{
			URL:      cfg.PostgresURL,
			MaxConns: cfg.PostgresMaxConns,
		},
		MongoDB: storage.MongoDBConfig{
			URL:      cfg.MongoURL,
			Database: cfg.MongoDatabase,
		},
	}
}
