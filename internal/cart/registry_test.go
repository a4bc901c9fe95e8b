package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/authstate"
	"storefront-api/internal/domain"
	"storefront-api/internal/notice"
	"storefront-api/pkg/logger"
)

func newRegistry(t *testing.T, repo *mockCartRepo) *Registry {
	t.Helper()
	r := NewRegistry(repo, &notice.Recorder{}, logger.NewNop())
	t.Cleanup(r.Close)
	return r
}

func TestRegistry_GetReturnsSameSynchronizer(t *testing.T) {
	repo := &mockCartRepo{}
	r := newRegistry(t, repo)
	ctx := context.Background()

	first, err := r.Get(ctx, "u-1")
	require.NoError(t, err)
	second, err := r.Get(ctx, "u-1")
	require.NoError(t, err)

	assert.Same(t, first, second)

	list, _, _, _, _ := repo.calls()
	assert.Equal(t, 1, list, "only the first Get fetches")
}

func TestRegistry_ConcurrentFirstGetsShareOneFetch(t *testing.T) {
	repo := &mockCartRepo{}
	r := newRegistry(t, repo)

	const goroutines = 16
	var wg sync.WaitGroup
	syncs := make([]*Synchronizer, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Get(context.Background(), "u-1")
			require.NoError(t, err)
			syncs[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, syncs[0], syncs[i])
	}

	list, _, _, _, _ := repo.calls()
	assert.Equal(t, 1, list, "creation fetch is single-flighted")
}

func TestRegistry_EvictClearsLocallyOnly(t *testing.T) {
	repo := &mockCartRepo{}
	r := newRegistry(t, repo)
	ctx := context.Background()

	s, err := r.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, productLaptop, 2))

	r.Evict("u-1")

	assert.Empty(t, s.Items())
	_, _, _, del, delAll := repo.calls()
	assert.Zero(t, del+delAll, "eviction never issues remote deletes")
}

func TestRegistry_WatchWarmsOnSignIn(t *testing.T) {
	repo := &mockCartRepo{listLines: []domain.CartLine{{Product: productLaptop, Quantity: 3}}}
	r := newRegistry(t, repo)

	b := authstate.NewBroadcaster()
	defer b.Close()
	r.Watch(b.Subscribe())

	b.Publish(authstate.Event{
		Kind:    authstate.EventSignedIn,
		Session: &domain.Session{User: domain.User{ID: "u-1"}},
	})

	require.Eventually(t, func() bool {
		list, _, _, _, _ := repo.calls()
		return list == 1
	}, time.Second, 10*time.Millisecond)

	s, err := r.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalItems())
}

func TestRegistry_WatchClearsMirrorsOnSignOut(t *testing.T) {
	repo := &mockCartRepo{}
	r := newRegistry(t, repo)
	ctx := context.Background()

	s, err := r.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, productLaptop, 2))

	b := authstate.NewBroadcaster()
	defer b.Close()
	r.Watch(b.Subscribe())

	b.Publish(authstate.Event{Kind: authstate.EventSignedOut})

	require.Eventually(t, func() bool {
		return len(s.Items()) == 0
	}, time.Second, 10*time.Millisecond)

	_, _, _, del, delAll := repo.calls()
	assert.Zero(t, del+delAll)
}
