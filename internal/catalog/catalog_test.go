package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
)

func productNames(products []domain.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func TestFilter_QueryMatchesNameCaseInsensitively(t *testing.T) {
	result := Filter(Products, "lap", domain.CategoryAll)

	names := productNames(result)
	assert.Contains(t, names, "Laptop")
	assert.Contains(t, names, "Desk Lamp", "query matches the description too")
	assert.NotContains(t, names, "Smartphone")
}

func TestFilter_CategoryIsExactAndCaseSensitive(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     int
	}{
		{name: "all matches everything", category: "all", want: len(Products)},
		{name: "empty matches everything", category: "", want: len(Products)},
		{name: "exact category", category: "Electronics", want: 4},
		{name: "case mismatch matches nothing", category: "electronics", want: 0},
		{name: "unknown category", category: "Toys", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Filter(Products, "", tt.category), tt.want)
		})
	}
}

func TestFilter_BothPredicatesMustHold(t *testing.T) {
	result := Filter(Products, "lap", "Home")

	require.Len(t, result, 1)
	assert.Equal(t, "Desk Lamp", result[0].Name)
}

func TestFilter_QueryMatchesDescription(t *testing.T) {
	result := Filter(Products, "noise cancellation", domain.CategoryAll)

	require.Len(t, result, 1)
	assert.Equal(t, "Wireless Headphones", result[0].Name)
}

func TestFilter_NoMatches(t *testing.T) {
	assert.Empty(t, Filter(Products, "quantum annealer", domain.CategoryAll))
}

func TestCategories_AllIsFirst(t *testing.T) {
	require.NotEmpty(t, Categories)
	assert.Equal(t, domain.CategoryAll, Categories[0].ID)

	seen := map[string]bool{}
	for _, p := range Products {
		seen[p.Category] = true
	}
	for _, c := range Categories[1:] {
		assert.True(t, seen[c.ID], "category %s should exist in the catalog", c.ID)
	}
}
