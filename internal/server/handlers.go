// Package server provides the HTTP surface of the product advisor.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"advisor/internal/advisor"
	"advisor/internal/catalog"
	"advisor/internal/core"
)

// Handler holds the HTTP handlers
type Handler struct {
	advisor *advisor.Service
	catalog *catalog.Catalog
	store   core.Store
}

// NewHandler creates a new handler
func NewHandler(svc *advisor.Service, cat *catalog.Catalog, store core.Store) *Handler {
	return &Handler{
		advisor: svc,
		catalog: cat,
		store:   store,
	}
}

// recommendationsRequest is the POST /v1/recommendations body
type recommendationsRequest struct {
	Query string `json:"query"`
}

// renderedRecommendation is one recommendation with its catalog product
// resolved. Entries referencing unknown product IDs are dropped before
// rendering, per the data-integrity contract.
type renderedRecommendation struct {
	Product        core.Product `json:"product"`
	RelevanceScore int          `json:"relevance_score"`
	Reasoning      string       `json:"reasoning"`
	KeyFeatures    []string     `json:"key_features"`
}

// recommendationsResponse is the POST /v1/recommendations reply
type recommendationsResponse struct {
	Origin          advisor.Origin           `json:"origin"`
	QueryAnalysis   string                   `json:"query_analysis"`
	Recommendations []renderedRecommendation `json:"recommendations"`
}

// Recommendations handles POST /v1/recommendations
func (h *Handler) Recommendations(c echo.Context) error {
	var req recommendationsRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}

	if strings.TrimSpace(req.Query) == "" {
		return handleError(c, core.NewInvalidRequestError("query must not be empty", nil))
	}

	result := h.advisor.GetRecommendations(c.Request().Context(), req.Query)

	rendered := make([]renderedRecommendation, 0, len(result.Response.Recommendations))
	for _, rec := range result.Response.Recommendations {
		product, ok := h.catalog.ByID(rec.ProductID)
		if !ok {
			slog.Debug("dropping recommendation with unknown product id", "product_id", rec.ProductID)
			continue
		}
		rendered = append(rendered, renderedRecommendation{
			Product:        product,
			RelevanceScore: rec.RelevanceScore,
			Reasoning:      rec.Reasoning,
			KeyFeatures:    rec.KeyFeatures,
		})
	}

	// Persisting history is best-effort; a storage failure must not fail
	// the recommendation itself.
	record := core.SearchRecord{
		ID:              uuid.NewString(),
		Query:           req.Query,
		Timestamp:       time.Now().UTC(),
		Recommendations: result.Response.Recommendations,
	}
	if err := h.store.SaveSearch(c.Request().Context(), record); err != nil {
		slog.Error("failed to save search record", "error", err)
	}

	return c.JSON(http.StatusOK, recommendationsResponse{
		Origin:          result.Origin,
		QueryAnalysis:   result.Response.QueryAnalysis,
		Recommendations: rendered,
	})
}

// ListProducts handles GET /v1/products
func (h *Handler) ListProducts(c echo.Context) error {
	products := h.catalog.All()
	if category := c.QueryParam("category"); category != "" {
		filtered := make([]core.Product, 0, len(products))
		for _, p := range products {
			if strings.EqualFold(p.Category, category) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": products})
}

// GetProduct handles GET /v1/products/:id
func (h *Handler) GetProduct(c echo.Context) error {
	product, ok := h.catalog.ByID(c.Param("id"))
	if !ok {
		return handleError(c, core.NewNotFoundError("product not found: "+c.Param("id")))
	}
	return c.JSON(http.StatusOK, product)
}

// ListCategories handles GET /v1/categories
func (h *Handler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": h.catalog.Categories()})
}

// SearchHistory handles GET /v1/history
func (h *Handler) SearchHistory(c echo.Context) error {
	records, err := h.store.SearchHistory(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	if records == nil {
		records = []core.SearchRecord{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"history": records})
}

// ClearSearchHistory handles DELETE /v1/history
func (h *Handler) ClearSearchHistory(c echo.Context) error {
	if err := h.store.ClearSearchHistory(c.Request().Context()); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFavorites handles GET /v1/favorites
func (h *Handler) ListFavorites(c echo.Context) error {
	ids, err := h.store.Favorites(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}

	// Resolve against the catalog; favorites for products no longer in the
	// catalog are skipped.
	products := make([]core.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := h.catalog.ByID(id); ok {
			products = append(products, p)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"favorites": products})
}

// AddFavorite handles PUT /v1/favorites/:id
func (h *Handler) AddFavorite(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.catalog.ByID(id); !ok {
		return handleError(c, core.NewNotFoundError("product not found: "+id))
	}
	if err := h.store.AddFavorite(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /v1/favorites/:id
func (h *Handler) RemoveFavorite(c echo.Context) error {
	if err := h.store.RemoveFavorite(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleError converts advisor errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var advErr *core.AdvisorError
	if errors.As(err, &advErr) {
		return c.JSON(advErr.HTTPStatusCode(), advErr.ToJSON())
	}

	slog.Error("unexpected handler error", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
