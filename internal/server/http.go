package server

import (
	"context"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the Echo server
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options
type Config struct {
	MetricsEnabled  bool   // Whether to expose Prometheus metrics endpoint
	MetricsEndpoint string // HTTP path for metrics endpoint (default: /metrics)
}

// New creates a new HTTP server
func New(handler *Handler, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true

	// Global middleware stack (order matters)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimit("64K"))

	// Public routes
	e.GET("/health", handler.Health)
	if cfg != nil && cfg.MetricsEnabled {
		metricsPath := "/metrics"
		if cfg.MetricsEndpoint != "" {
			// Normalize path to prevent traversal attacks
			metricsPath = path.Clean(cfg.MetricsEndpoint)
		}
		e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))
	}

	// API routes
	e.POST("/v1/recommendations", handler.Recommendations)
	e.GET("/v1/products", handler.ListProducts)
	e.GET("/v1/products/:id", handler.GetProduct)
	e.GET("/v1/categories", handler.ListCategories)
	e.GET("/v1/history", handler.SearchHistory)
	e.DELETE("/v1/history", handler.ClearSearchHistory)
	e.GET("/v1/favorites", handler.ListFavorites)
	e.PUT("/v1/favorites/:id", handler.AddFavorite)
	e.DELETE("/v1/favorites/:id", handler.RemoveFavorite)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements the http.Handler interface, allowing Server to be used with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
