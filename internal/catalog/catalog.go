// Package catalog holds the static product catalog the advisor recommends from.
// The catalog is loaded once at startup from embedded data and never mutated.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"advisor/internal/core"
)

//go:embed products.json
var productsJSON []byte

// Catalog is an immutable, in-memory product list with point lookup by ID.
type Catalog struct {
	products []core.Product
	byID     map[string]core.Product
}

// Load parses the embedded product data and builds the catalog.
// Duplicate product IDs are a data error and fail the load.
func Load() (*Catalog, error) {
	return load(productsJSON)
}

func load(data []byte) (*Catalog, error) {
	var products []core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse product data: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product data is empty")
	}

	byID := make(map[string]core.Product, len(products))
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has empty id", p.Name)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{products: products, byID: byID}, nil
}

// All returns the full product list in stable catalog order.
// Callers must not modify the returned slice.
func (c *Catalog) All() []core.Product {
	return c.products
}

// ByID looks up a product by its identifier. The second return value is
// false for unknown IDs; a dangling reference from a recommendation is
// expected and is not an error.
func (c *Catalog) ByID(id string) (core.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Categories returns the distinct product categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}
