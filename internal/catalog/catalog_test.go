package catalog

import "testing"

func TestLoad(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cat.Len() == 0 {
		t.Fatal("catalog is empty")
	}

	// IDs must be unique; Load enforces it, so All and ByID must agree.
	for _, p := range cat.All() {
		got, ok := cat.ByID(p.ID)
		if !ok {
			t.Fatalf("ByID(%q) missing product present in All", p.ID)
		}
		if got.Name != p.Name {
			t.Errorf("ByID(%q).Name = %q, want %q", p.ID, got.Name, p.Name)
		}
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid JSON", `not json`},
		{"empty list", `[]`},
		{"empty id", `[{"id":"","name":"X"}]`},
		{"duplicate id", `[{"id":"1","name":"A"},{"id":"1","name":"B"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestByIDAbsent(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Dangling references from recommendations resolve to absence, not a panic.
	if _, ok := cat.ByID("no-such-product"); ok {
		t.Error("ByID returned ok for unknown id")
	}
}

func TestCategories(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	categories := cat.Categories()
	if len(categories) == 0 {
		t.Fatal("no categories")
	}

	seen := make(map[string]bool)
	for _, c := range categories {
		if seen[c] {
			t.Errorf("duplicate category %q", c)
		}
		seen[c] = true
	}

	// First-seen order: the first product's category leads.
	if categories[0] != cat.All()[0].Category {
		t.Errorf("categories[0] = %q, want %q", categories[0], cat.All()[0].Category)
	}
}

func TestFallbackReferencedProductsExist(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The offline rule table hardcodes these catalog identifiers.
	for _, id := range []string{"1", "2", "3", "6", "7", "8", "10", "11", "12", "14", "15", "16", "17", "18", "19", "27", "28", "30"} {
		if _, ok := cat.ByID(id); !ok {
			t.Errorf("product %q referenced by fallback rules is missing from the catalog", id)
		}
	}
}
