// Package fallback provides a deterministic, rule-based recommender used
// when the remote completion service is unavailable or returns unusable
// output. It is pure computation over static data: it never fails, never
// blocks, and always yields exactly three recommendations.
package fallback

import (
	"strings"

	"advisor/internal/core"
)

// rule maps a keyword group to a fixed recommendation set. Rules are
// evaluated in declaration order and the first match wins; rules are never
// combined or scored.
type rule struct {
	keywords []string
	response core.RecommendationResponse
}

// Classifier matches query keywords against an ordered rule table.
type Classifier struct {
	rules       []rule
	defaultRule core.RecommendationResponse
}

// New creates the classifier with the built-in rule table.
func New() *Classifier {
	return &Classifier{rules: rules, defaultRule: defaultResponse}
}

// Classify returns the recommendation set for the first rule whose keyword
// group matches the query, or the general-purpose default set. Matching is
// case-insensitive substring membership.
func (c *Classifier) Classify(query string) *core.RecommendationResponse {
	q := strings.ToLower(query)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				resp := cloneResponse(r.response)
				return &resp
			}
		}
	}
	resp := cloneResponse(c.defaultRule)
	return &resp
}

// cloneResponse copies the static response so callers cannot mutate the
// rule table through the returned pointer.
func cloneResponse(r core.RecommendationResponse) core.RecommendationResponse {
	out := core.RecommendationResponse{
		QueryAnalysis:   r.QueryAnalysis,
		Recommendations: make([]core.Recommendation, len(r.Recommendations)),
	}
	for i, rec := range r.Recommendations {
		out.Recommendations[i] = rec
		out.Recommendations[i].KeyFeatures = append([]string(nil), rec.KeyFeatures...)
	}
	return out
}
