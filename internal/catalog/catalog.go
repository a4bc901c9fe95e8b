// Package catalog holds the storefront's product catalog: a fixed built-in
// list used when the remote products table is unavailable, and the
// text/category filtering contract shared by both sources.
package catalog

import (
	"strings"

	"storefront-api/internal/domain"
)

// Products is the built-in catalog, seeded into the products table by the
// migrate command and served directly when the table is unreachable.
var Products = []domain.Product{
	{
		ID:          "1",
		Name:        "Wireless Headphones",
		Price:       129.99,
		Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e",
		Description: "Premium wireless headphones with noise cancellation and 20-hour battery life.",
		Category:    "Electronics",
	},
	{
		ID:          "2",
		Name:        "Smart Watch",
		Price:       199.99,
		Image:       "https://images.unsplash.com/photo-1579586337278-3befd40fd17a",
		Description: "Track your fitness, receive notifications, and more with this smartwatch.",
		Category:    "Electronics",
	},
	{
		ID:          "3",
		Name:        "Smartphone",
		Price:       699.99,
		Image:       "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9",
		Description: "Latest smartphone with high-resolution camera and powerful processor.",
		Category:    "Electronics",
	},
	{
		ID:          "4",
		Name:        "Laptop",
		Price:       1299.99,
		Image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853",
		Description: "Ultra-thin laptop with 16GB RAM and 512GB SSD storage.",
		Category:    "Electronics",
	},
	{
		ID:          "5",
		Name:        "Running Shoes",
		Price:       89.99,
		Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff",
		Description: "Comfortable running shoes with advanced cushioning technology.",
		Category:    "Fashion",
	},
	{
		ID:          "6",
		Name:        "Backpack",
		Price:       49.99,
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62",
		Description: "Spacious backpack with multiple compartments and water-resistant material.",
		Category:    "Fashion",
	},
	{
		ID:          "7",
		Name:        "Coffee Maker",
		Price:       79.99,
		Image:       "https://images.unsplash.com/photo-1521302200778-33c7b67c7df8",
		Description: "Automatic coffee maker with timer and multiple brewing options.",
		Category:    "Home",
	},
	{
		ID:          "8",
		Name:        "Desk Lamp",
		Price:       29.99,
		Image:       "https://images.unsplash.com/photo-1534281368595-8fdf1faa3a08",
		Description: "Adjustable desk lamp with multiple brightness levels.",
		Category:    "Home",
	},
}

// Categories is the fixed filter list: "all" plus each distinct category.
var Categories = []domain.Category{
	{ID: domain.CategoryAll, Name: "All Products"},
	{ID: "Electronics", Name: "Electronics"},
	{ID: "Fashion", Name: "Fashion"},
	{ID: "Home", Name: "Home"},
}

// Filter returns the products matching both predicates: the category filter
// ("all" matches everything, otherwise exact case-sensitive match) and the
// query (case-insensitive substring of name or description). Order is
// preserved; there is no pagination or ranking.
func Filter(products []domain.Product, query, category string) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	lowerQuery := strings.ToLower(query)

	for _, p := range products {
		if !matchesCategory(p, category) {
			continue
		}
		if !matchesQuery(p, lowerQuery) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Lookup returns the built-in catalog entry for the id, or nil when unknown.
func Lookup(productID string) *domain.Product {
	for _, p := range Products {
		if p.ID == productID {
			product := p
			return &product
		}
	}
	return nil
}

func matchesCategory(p domain.Product, category string) bool {
	return category == "" || category == domain.CategoryAll || p.Category == category
}

func matchesQuery(p domain.Product, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Description), lowerQuery)
}
