package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/config"
	"storefront-api/pkg/logger"
)

func TestNew_WithoutOptionalBackends(t *testing.T) {
	cfg := &config.Config{
		Port:              "8080",
		LogLevel:          "info",
		Environment:       "development",
		SupabaseURL:       "https://project.supabase.co",
		SupabaseAnonKey:   "anon-key",
		SupabaseJWTSecret: "super-secret-jwt-token-with-at-least-32-characters",
	}

	c, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.False(t, c.HasDatabase())
	assert.False(t, c.HasRedis())
	assert.NotNil(t, c.Catalog)
	assert.NotNil(t, c.Sessions)
	assert.NotNil(t, c.Carts)
	assert.NotNil(t, c.GetTokenService())
	assert.Equal(t, cfg, c.GetConfig())
}

func TestNew_ServesBuiltInCatalogWithoutDatabase(t *testing.T) {
	cfg := &config.Config{
		LogLevel:    "info",
		Environment: "development",
	}

	c, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	products := c.Catalog.List(context.Background())
	assert.NotEmpty(t, products)
}
