package domain

import "time"

// CartLine is one product/quantity pairing within a user's cart. Quantity is
// always >= 1 while the line exists; a quantity dropping to zero removes the
// line instead.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartRow is the persisted shape of a cart line: one row of cart_items joined
// with its product snapshot.
type CartRow struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// CartSummary carries the derived aggregates alongside the lines. Totals are
// recomputed on every read, never stored.
type CartSummary struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// Order is the result of a simulated checkout.
type Order struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
	Shipping   Shipping   `json:"shipping"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Shipping is the delivery information collected at checkout.
type Shipping struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	PostCode string `json:"post_code"`
}
