package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storefront-api/pkg/database"
)

// profileRepository reads the profiles table with PostgreSQL
type profileRepository struct {
	db *database.PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.PostgresDB) ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// GetFullName returns the stored display name for a user. A missing profile
// row is not an error; enrichment falls back to session metadata.
func (r *profileRepository) GetFullName(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT full_name
		FROM profiles
		WHERE id = $1
	`

	var fullName string
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&fullName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get profile: %w", err)
	}

	return fullName, nil
}
