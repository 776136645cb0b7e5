package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"advisor/internal/advisor"
	"advisor/internal/cache"
	"advisor/internal/catalog"
	"advisor/internal/core"
	"advisor/internal/fallback"
	"advisor/internal/storage"
)

// scriptedCompleter returns canned completion texts in order.
type scriptedCompleter struct {
	texts []string
	err   error
	calls int
}

func (s *scriptedCompleter) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	text := s.texts[0]
	if len(s.texts) > 1 {
		s.texts = s.texts[1:]
	}
	return text, nil
}

func newTestServer(t *testing.T, completer core.Completer) (*Server, core.Store) {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)

	svc := advisor.New(cat, cache.NewMemoryCache(0, 0), completer, fallback.New(), nil)
	store := storage.NewMemory()
	return New(NewHandler(svc, cat, store), nil), store
}

func doJSON(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRecommendationsModelPath(t *testing.T) {
	completer := &scriptedCompleter{texts: []string{
		`{"recommendations":[{"product_id":"1","relevance_score":95,"reasoning":"fits","key_features":["fast"]}],"query_analysis":"wants a laptop"}`,
	}}
	srv, store := newTestServer(t, completer)

	rec := doJSON(t, srv, http.MethodPost, "/v1/recommendations", `{"query":"laptop for coding"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Origin          string `json:"origin"`
		QueryAnalysis   string `json:"query_analysis"`
		Recommendations []struct {
			Product        core.Product `json:"product"`
			RelevanceScore int          `json:"relevance_score"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "model", body.Origin)
	require.Equal(t, "wants a laptop", body.QueryAnalysis)
	require.Len(t, body.Recommendations, 1)
	require.Equal(t, "1", body.Recommendations[0].Product.ID)
	require.NotEmpty(t, body.Recommendations[0].Product.Name)

	// The search was persisted.
	history, err := store.SearchHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "laptop for coding", history[0].Query)
}

func TestRecommendationsEmptyQuery(t *testing.T) {
	srv, store := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	for _, body := range []string{`{"query":""}`, `{"query":"   "}`, `{}`} {
		rec := doJSON(t, srv, http.MethodPost, "/v1/recommendations", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		require.Contains(t, rec.Body.String(), "invalid_request_error")
	}

	history, err := store.SearchHistory(context.Background())
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestRecommendationsMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	rec := doJSON(t, srv, http.MethodPost, "/v1/recommendations", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationsFallbackOrigin(t *testing.T) {
	completer := &scriptedCompleter{err: context.DeadlineExceeded}
	srv, _ := newTestServer(t, completer)

	rec := doJSON(t, srv, http.MethodPost, "/v1/recommendations", `{"query":"gaming headphones"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Origin string `json:"origin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "fallback", body.Origin)
}

func TestRecommendationsDropsUnknownProducts(t *testing.T) {
	completer := &scriptedCompleter{texts: []string{
		`{"recommendations":[
			{"product_id":"1","relevance_score":95,"reasoning":"real"},
			{"product_id":"9999","relevance_score":90,"reasoning":"hallucinated"}
		],"query_analysis":"x"}`,
	}}
	srv, _ := newTestServer(t, completer)

	rec := doJSON(t, srv, http.MethodPost, "/v1/recommendations", `{"query":"laptop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Recommendations []struct {
			Product core.Product `json:"product"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 1)
	require.Equal(t, "1", body.Recommendations[0].Product.ID)
}

func TestListProducts(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	rec := doJSON(t, srv, http.MethodGet, "/v1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []core.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Products)
}

func TestListProductsByCategory(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	rec := doJSON(t, srv, http.MethodGet, "/v1/products?category=laptops", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []core.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Products)
	for _, p := range body.Products {
		require.Equal(t, "Laptops", p.Category)
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/products?category=NoSuchCategory", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Empty(t, body.Products)
}

func TestGetProduct(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	rec := doJSON(t, srv, http.MethodGet, "/v1/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var product core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	require.Equal(t, "1", product.ID)

	rec = doJSON(t, srv, http.MethodGet, "/v1/products/9999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not_found_error")
}

func TestListCategories(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	rec := doJSON(t, srv, http.MethodGet, "/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Categories)
}

func TestHistoryLifecycle(t *testing.T) {
	completer := &scriptedCompleter{texts: []string{
		`{"recommendations":[{"product_id":"1","relevance_score":95,"reasoning":"r"}],"query_analysis":"x"}`,
	}}
	srv, _ := newTestServer(t, completer)

	rec := doJSON(t, srv, http.MethodPost, "/v1/recommendations", `{"query":"laptop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []core.SearchRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.History, 1)
	require.Equal(t, "laptop", body.History[0].Query)

	rec = doJSON(t, srv, http.MethodDelete, "/v1/history", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/history", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Empty(t, body.History)
}

func TestFavoritesLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{texts: []string{"{}"}})

	rec := doJSON(t, srv, http.MethodPut, "/v1/favorites/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Duplicate add is a no-op
	rec = doJSON(t, srv, http.MethodPut, "/v1/favorites/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Unknown product is rejected
	rec = doJSON(t, srv, http.MethodPut, "/v1/favorites/9999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/favorites", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Favorites []core.Product `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Favorites, 1)
	require.Equal(t, "1", body.Favorites[0].ID)

	rec = doJSON(t, srv, http.MethodDelete, "/v1/favorites/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/favorites", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Empty(t, body.Favorites)
}

func TestMetricsEndpoint(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	svc := advisor.New(cat, cache.NewMemoryCache(0, 0), &scriptedCompleter{texts: []string{"{}"}}, fallback.New(), nil)
	srv := New(NewHandler(svc, cat, storage.NewMemory()), &Config{MetricsEnabled: true})

	rec := doJSON(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
