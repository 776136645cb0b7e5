package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"advisor/internal/core"
)

// promptProduct is the catalog projection embedded in the prompt.
type promptProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features,omitempty"`
}

// buildPrompt embeds the user query and the full catalog projection into the
// advisor instruction. The instruction asks for 3-5 recommendations as JSON
// with no surrounding prose; the parser still tolerates violations.
func buildPrompt(query string, products []core.Product) string {
	projection := make([]promptProduct, len(products))
	for i, p := range products {
		projection[i] = promptProduct{
			ID:          p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Price:       p.Price,
			Description: p.Description,
			Features:    p.Features,
		}
	}

	// The projection is built from fixed types; marshaling cannot fail.
	catalogJSON, _ := json.MarshalIndent(projection, "", "  ")

	var b strings.Builder
	b.WriteString("You are an AI product advisor. Analyze the user's query and recommend the most suitable products from the provided catalog.\n\n")
	fmt.Fprintf(&b, "User Query: %q\n\n", query)
	b.WriteString("Product Catalog:\n")
	b.Write(catalogJSON)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("1. Return exactly 3-5 product recommendations that best match the user's needs\n")
	b.WriteString("2. Include reasoning for each recommendation explaining why it matches the query\n")
	b.WriteString("3. Consider price, category, brand, and use case from the description\n")
	b.WriteString("4. Format response as valid JSON only, no additional text\n\n")
	b.WriteString(`Response Format (JSON only):
{
  "recommendations": [
    {
      "product_id": "id_number",
      "relevance_score": 85,
      "reasoning": "This product matches because...",
      "key_features": ["feature1", "feature2"]
    }
  ],
  "query_analysis": "Brief analysis of what the user is looking for"
}`)

	return b.String()
}
