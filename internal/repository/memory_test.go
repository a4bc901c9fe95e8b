package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
)

func memoryLookup(productID string) *domain.Product {
	known := map[string]domain.Product{
		"p1": {ID: "p1", Name: "Laptop", Price: 1299.99},
		"p2": {ID: "p2", Name: "Running Shoes", Price: 89.99},
	}
	if p, ok := known[productID]; ok {
		return &p
	}
	return nil
}

func TestMemoryCartRepository_Lifecycle(t *testing.T) {
	repo := NewMemoryCartRepository(memoryLookup)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "u1", "p1", 2))
	require.NoError(t, repo.Insert(ctx, "u1", "p2", 1))

	lines, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)

	require.NoError(t, repo.UpdateQuantity(ctx, "u1", "p1", 5))
	lines, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, lines[0].Quantity)

	require.NoError(t, repo.Delete(ctx, "u1", "p1"))
	lines, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].Product.ID)

	require.NoError(t, repo.DeleteAll(ctx, "u1"))
	lines, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestMemoryCartRepository_UsersAreIsolated(t *testing.T) {
	repo := NewMemoryCartRepository(memoryLookup)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "u1", "p1", 1))

	lines, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestMemoryCartRepository_SkipsUnknownProducts(t *testing.T) {
	repo := NewMemoryCartRepository(memoryLookup)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "u1", "discontinued", 1))
	require.NoError(t, repo.Insert(ctx, "u1", "p2", 1))

	lines, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].Product.ID)
}

func TestMemoryCartRepository_DeleteMissingLineIsNotAnError(t *testing.T) {
	repo := NewMemoryCartRepository(memoryLookup)

	assert.NoError(t, repo.Delete(context.Background(), "u1", "p1"))
	assert.NoError(t, repo.DeleteAll(context.Background(), "u1"))
}
