// Package core defines the core types and interfaces for the product advisor.
package core

import "time"

// Product is a single catalog entry. The catalog is immutable after load,
// so Product values are safe to share between goroutines.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	InStock     bool     `json:"in_stock"`
}

// Recommendation is one ranked product suggestion. ProductID may reference
// a product that does not exist in the catalog (the remote model is not
// guaranteed to be consistent); such entries are dropped at render time,
// not here.
type Recommendation struct {
	ProductID      string   `json:"product_id"`
	RelevanceScore int      `json:"relevance_score"`
	Reasoning      string   `json:"reasoning"`
	KeyFeatures    []string `json:"key_features"`
}

// RecommendationResponse is an ordered list of recommendations (index 0 is
// the top match) plus a short analysis of the query.
type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	QueryAnalysis   string           `json:"query_analysis"`
}

// SearchRecord is one persisted search history entry.
type SearchRecord struct {
	ID              string           `json:"id"`
	Query           string           `json:"query"`
	Timestamp       time.Time        `json:"timestamp"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}
