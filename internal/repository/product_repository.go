package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storefront-api/internal/domain"
	"storefront-api/pkg/database"
)

// productRepository reads the products table with PostgreSQL
type productRepository struct {
	db *database.PostgresDB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.PostgresDB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

// List returns all products.
func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, image, description, category
		FROM products
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Description, &p.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading product rows: %w", err)
	}

	return products, nil
}

// GetByID returns one product, or nil without error when it does not exist.
func (r *productRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT id, name, price, image, description, category
		FROM products
		WHERE id = $1
	`

	var p domain.Product
	err := r.db.Pool.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.Name, &p.Price, &p.Image, &p.Description, &p.Category,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}
