// Package advisor orchestrates the recommendation flow: cache lookup,
// prompt construction, the remote completion call, tolerant response
// parsing, cache write, and the offline fallback. Its public contract never
// fails: every internal error collapses to a fallback-derived response.
package advisor

import (
	"context"
	"log/slog"
	"time"

	"advisor/internal/cache"
	"advisor/internal/catalog"
	"advisor/internal/core"
	"advisor/internal/fallback"
	"advisor/internal/observability"
)

// Origin identifies how a result was produced.
type Origin string

const (
	// OriginModel means the remote completion service produced the response.
	OriginModel Origin = "model"
	// OriginCache means the response was served from the cache.
	OriginCache Origin = "cache"
	// OriginFallback means the offline keyword classifier produced the response.
	OriginFallback Origin = "fallback"
)

// Result pairs a recommendation response with its origin. The origin is
// not part of the cached payload; a cache hit carries the same response
// bytes the originating miss produced.
type Result struct {
	Response *core.RecommendationResponse
	Origin   Origin
}

// Service is the sole entry point for recommendations.
type Service struct {
	catalog    *catalog.Catalog
	cache      core.ResponseCache
	completer  core.Completer
	classifier *fallback.Classifier
	metrics    *observability.Metrics
}

// New creates the recommendation service. metrics may be nil.
func New(cat *catalog.Catalog, respCache core.ResponseCache, completer core.Completer, classifier *fallback.Classifier, metrics *observability.Metrics) *Service {
	return &Service{
		catalog:    cat,
		cache:      respCache,
		completer:  completer,
		classifier: classifier,
		metrics:    metrics,
	}
}

// GetRecommendations resolves a query to a recommendation response.
// It always returns a result: transport failures, unusable generated text
// and even an empty query degrade to the fallback classifier rather than
// surfacing an error. Fallback-derived responses are never cached.
func (s *Service) GetRecommendations(ctx context.Context, query string) *Result {
	key := cache.NormalizeQuery(query)
	if key == "" {
		// Callers are expected to validate input; degrade rather than crash.
		slog.Warn("empty query, using fallback recommendations")
		return s.fallbackResult(query)
	}

	if resp, ok := s.cache.Get(ctx, key); ok {
		s.metrics.ObserveCacheHit()
		s.metrics.ObserveRequest(string(OriginCache))
		slog.Debug("returning cached recommendations", "key", key)
		return &Result{Response: resp, Origin: OriginCache}
	}
	s.metrics.ObserveCacheMiss()

	prompt := buildPrompt(query, s.catalog.All())

	start := time.Now()
	text, err := s.completer.Generate(ctx, prompt)
	s.metrics.ObserveRemoteDuration(time.Since(start))
	if err != nil {
		s.metrics.ObserveRemoteFailure("transport")
		slog.Error("remote completion failed, using fallback recommendations", "error", err)
		return s.fallbackResult(query)
	}

	resp, err := parseResponse(text)
	if err != nil {
		s.metrics.ObserveRemoteFailure("shape")
		slog.Error("unusable model output, using fallback recommendations", "error", err)
		return s.fallbackResult(query)
	}

	s.cache.Put(ctx, key, resp)
	s.metrics.ObserveRequest(string(OriginModel))
	return &Result{Response: resp, Origin: OriginModel}
}

func (s *Service) fallbackResult(query string) *Result {
	s.metrics.ObserveRequest(string(OriginFallback))
	return &Result{Response: s.classifier.Classify(query), Origin: OriginFallback}
}
