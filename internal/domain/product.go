package domain

// Product is the catalog entry exposed to the storefront. Cart lines hold a
// value copy taken at add time, so later catalog edits do not change lines
// already in a cart.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// Category is a storefront filter option. The "all" category matches every
// product.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryAll is the catch-all category filter.
const CategoryAll = "all"
