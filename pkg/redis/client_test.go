package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := NewClientFromAddr(mr.Addr(), "development", zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestClient_SetGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	err := client.Set(ctx, client.KeyBuilder.KeyProductsAll(), `["p1"]`, TTLProducts)
	require.NoError(t, err)

	val, err := client.Get(ctx, client.KeyBuilder.KeyProductsAll())
	require.NoError(t, err)
	assert.Equal(t, `["p1"]`, val)
}

func TestClient_GetMiss(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Get(context.Background(), "staging:catalog:products:all")
	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestClient_Delete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyCartSnapshot("user-1")
	require.NoError(t, client.Set(ctx, key, "snapshot", TTLCartSnapshot))
	require.NoError(t, client.Delete(ctx, key))

	n, err := client.Exists(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClient_TTLExpiry(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyProductsAll()
	require.NoError(t, client.Set(ctx, key, "cached", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := client.Get(ctx, key)
	assert.True(t, IsNil(err))
}

func TestClient_Health(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Health(context.Background()))
}
