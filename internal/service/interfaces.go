package service

import (
	"context"

	"storefront-api/internal/domain"
)

// TokenService validates bearer tokens presented to the API.
type TokenService interface {
	// Validate verifies the token and returns its claims. Both Supabase
	// JWTs and Google OAuth access tokens are accepted.
	Validate(ctx context.Context, token string) (*domain.TokenClaims, error)
}
