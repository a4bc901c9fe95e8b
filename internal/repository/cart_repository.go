package repository

import (
	"context"
	"fmt"

	"storefront-api/internal/domain"
	"storefront-api/pkg/database"
)

// cartRepository handles cart_items persistence with PostgreSQL
type cartRepository struct {
	db *database.PostgresDB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *database.PostgresDB) CartRepository {
	return &cartRepository{
		db: db,
	}
}

// ListByUser returns the user's cart lines joined with product snapshots.
func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	query := `
		SELECT ci.quantity,
		       p.id, p.name, p.price, p.image, p.description, p.category
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(
			&line.Quantity,
			&line.Product.ID,
			&line.Product.Name,
			&line.Product.Price,
			&line.Product.Image,
			&line.Product.Description,
			&line.Product.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item row: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading cart item rows: %w", err)
	}

	return lines, nil
}

// Insert creates a new cart line for the user.
func (r *cartRepository) Insert(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

// UpdateQuantity sets the quantity on an existing cart line.
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE user_id = $1 AND product_id = $2
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return nil
}

// Delete removes one cart line. A missing line is not an error.
func (r *cartRepository) Delete(ctx context.Context, userID, productID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

// DeleteAll removes every cart line for the user.
func (r *cartRepository) DeleteAll(ctx context.Context, userID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
