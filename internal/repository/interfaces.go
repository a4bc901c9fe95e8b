package repository

import (
	"context"

	"storefront-api/internal/domain"
)

// CartRepository is the remote store for cart_items rows.
type CartRepository interface {
	// ListByUser returns the user's cart lines with product snapshots.
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	// Insert creates a new cart line.
	Insert(ctx context.Context, userID, productID string, quantity int) error
	// UpdateQuantity sets the quantity on an existing line.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	// Delete removes one line. Deleting a missing line is not an error.
	Delete(ctx context.Context, userID, productID string) error
	// DeleteAll removes every line for the user.
	DeleteAll(ctx context.Context, userID string) error
}

// ProductRepository reads the products table.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, productID string) (*domain.Product, error)
}

// ProfileRepository reads the profiles table for display-name enrichment.
type ProfileRepository interface {
	// GetFullName returns the profile name for the user, or empty string
	// without error when no profile row exists.
	GetFullName(ctx context.Context, userID string) (string, error)
}
