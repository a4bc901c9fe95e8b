package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"storefront-api/internal/domain"
	"storefront-api/internal/service"
	"storefront-api/pkg/errors"
	"storefront-api/pkg/logger"
)

// Service implements the TokenService interface
type Service struct {
	jwtSecret      []byte
	googleClientID string
	logger         *logger.Logger
}

// NewService creates a new token validation service
func NewService(jwtSecret, googleClientID string, logger *logger.Logger) service.TokenService {
	return &Service{
		jwtSecret:      []byte(jwtSecret),
		googleClientID: googleClientID,
		logger:         logger,
	}
}

// Validate verifies a bearer token. Supabase sessions carry an HS256 JWT;
// the Google sign-in variant presents a Google OAuth access token instead.
func (s *Service) Validate(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if isGoogleAccessToken(token) {
		s.logger.Debug("Token identified as Google access token")
		return s.validateGoogleAccessToken(ctx, token)
	}

	if isJWTToken(token) {
		s.logger.Debug("Token identified as JWT")
		return s.validateSupabaseJWT(token)
	}

	s.logger.Error("Unrecognized token format")
	return nil, errors.NewAuthenticationError("Unrecognized token format")
}

// isGoogleAccessToken reports whether the token looks like a Google OAuth
// access token.
func isGoogleAccessToken(token string) bool {
	return strings.HasPrefix(token, "ya29.")
}

// isJWTToken reports whether the token has the three-segment JWT shape.
func isJWTToken(token string) bool {
	return len(strings.Split(token, ".")) == 3
}

// validateSupabaseJWT verifies the HS256 signature with the project JWT
// secret and extracts the identity claims.
func (s *Service) validateSupabaseJWT(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("JWT validation failed")
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.NewAuthenticationError("Token is missing the subject claim")
	}
	email, _ := claims["email"].(string)

	result := &domain.TokenClaims{Sub: sub, Email: email}
	if metadata, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if fullName, ok := metadata["full_name"].(string); ok {
			result.FullName = fullName
		}
	}

	return result, nil
}

// validateGoogleAccessToken resolves the token's userinfo through the Google
// OAuth2 API.
func (s *Service) validateGoogleAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	srv, err := oauth2v2.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		s.logger.WithError(err).Error("Failed to create Google OAuth2 service")
		return nil, errors.NewInternalError("Failed to create validation service", err)
	}

	userinfo, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		s.logger.WithError(err).Error("Google userinfo lookup failed")
		return nil, errors.NewAuthenticationError("Invalid or expired Google token")
	}

	if userinfo.Id == "" || userinfo.Email == "" {
		return nil, errors.NewAuthenticationError("Google token resolved to an incomplete identity")
	}

	s.logger.WithField("user_id", userinfo.Id).Debug("Google token validated")

	return &domain.TokenClaims{
		Sub:      userinfo.Id,
		Email:    userinfo.Email,
		FullName: userinfo.Name,
	}, nil
}
