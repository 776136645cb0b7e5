package advisor

import (
	"github.com/tidwall/gjson"

	"advisor/internal/core"
)

// parseResponse turns generated text into a recommendation response.
// The model is asked for bare JSON but may wrap it in prose, so the first
// balanced JSON object substring is located and parsed. Fields are then
// projected one by one with defined defaults: a missing key_features becomes
// an empty list, entries lacking a product_id or relevance_score are
// dropped. A response with no surviving entries is a shape error.
func parseResponse(text string) (*core.RecommendationResponse, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, core.NewShapeError("no JSON object found in generated text", nil)
	}
	if !gjson.Valid(raw) {
		return nil, core.NewShapeError("extracted JSON does not parse", nil)
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, core.NewShapeError("extracted JSON is not an object", nil)
	}

	resp := &core.RecommendationResponse{
		Recommendations: []core.Recommendation{},
		QueryAnalysis:   root.Get("query_analysis").String(),
	}

	for _, entry := range root.Get("recommendations").Array() {
		id := entry.Get("product_id")
		score := entry.Get("relevance_score")
		if !id.Exists() || id.String() == "" || !score.Exists() {
			continue
		}

		rec := core.Recommendation{
			ProductID:      id.String(),
			RelevanceScore: int(score.Int()),
			Reasoning:      entry.Get("reasoning").String(),
			KeyFeatures:    []string{},
		}
		for _, f := range entry.Get("key_features").Array() {
			rec.KeyFeatures = append(rec.KeyFeatures, f.String())
		}
		resp.Recommendations = append(resp.Recommendations, rec)
	}

	if len(resp.Recommendations) == 0 {
		return nil, core.NewShapeError("no usable recommendation entries in generated text", nil)
	}

	return resp, nil
}

// extractJSONObject returns the first balanced {...} substring of text,
// tracking string literals and escapes so braces inside values don't
// unbalance the scan.
func extractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", false
}
