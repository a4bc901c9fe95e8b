package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	"storefront-api/internal/notice"
	"storefront-api/pkg/logger"
)

var (
	productLaptop = domain.Product{
		ID: "p1", Name: "Laptop", Price: 1299.99, Category: "Electronics",
		Description: "Ultra-thin laptop with 16GB RAM and 512GB SSD storage.",
	}
	productShoes = domain.Product{
		ID: "p2", Name: "Running Shoes", Price: 89.99, Category: "Fashion",
		Description: "Comfortable running shoes with advanced cushioning technology.",
	}
)

// mockCartRepo scripts the remote store and counts calls.
type mockCartRepo struct {
	mu sync.Mutex

	listLines []domain.CartLine
	err       error

	listCalls      int
	insertCalls    int
	updateCalls    int
	deleteCalls    int
	deleteAllCalls int
}

func (m *mockCartRepo) ListByUser(context.Context, string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.listLines, nil
}

func (m *mockCartRepo) Insert(_ context.Context, _ string, _ string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	return m.err
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, _ string, _ string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	return m.err
}

func (m *mockCartRepo) Delete(_ context.Context, _ string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	return m.err
}

func (m *mockCartRepo) DeleteAll(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteAllCalls++
	return m.err
}

func (m *mockCartRepo) calls() (list, insert, update, del, delAll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.insertCalls, m.updateCalls, m.deleteCalls, m.deleteAllCalls
}

func newSynchronizer(t *testing.T, repo *mockCartRepo) (*Synchronizer, *notice.Recorder) {
	t.Helper()
	recorder := &notice.Recorder{}
	s := NewSynchronizer(repo, recorder, logger.NewNop())
	return s, recorder
}

func authedSynchronizer(t *testing.T, repo *mockCartRepo) (*Synchronizer, *notice.Recorder) {
	t.Helper()
	s, recorder := newSynchronizer(t, repo)
	require.NoError(t, s.SetUser(context.Background(), "u-1"))
	return s, recorder
}

func TestAddItem_RefusedWithoutIdentity(t *testing.T) {
	repo := &mockCartRepo{}
	s, recorder := newSynchronizer(t, repo)

	err := s.AddItem(context.Background(), productLaptop, 1)
	require.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())
	require.Len(t, recorder.Errors, 1)
	assert.Contains(t, recorder.Errors[0], "log in")

	_, insert, update, del, delAll := repo.calls()
	assert.Zero(t, insert+update+del+delAll, "no remote call may be attempted")
}

func TestAddItem_RepeatedAddsAccumulateIntoOneLine(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 1))
	require.NoError(t, s.AddItem(ctx, productLaptop, 2))
	require.NoError(t, s.AddItem(ctx, productLaptop, 3))

	items := s.Items()
	require.Len(t, items, 1, "exactly one line per product id")
	assert.Equal(t, 6, items[0].Quantity)
	assert.Equal(t, 6, s.TotalItems())

	_, insert, update, _, _ := repo.calls()
	assert.Equal(t, 1, insert, "first add inserts")
	assert.Equal(t, 2, update, "subsequent adds update the merged quantity")
}

func TestAddItem_RemoteFailureLeavesMirrorUntouched(t *testing.T) {
	repo := &mockCartRepo{}
	s, recorder := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 1))

	repo.mu.Lock()
	repo.err = errors.New("connection reset")
	repo.mu.Unlock()

	err := s.AddItem(ctx, productLaptop, 5)
	require.Error(t, err)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity, "failed remote write must not reach the mirror")
	assert.Contains(t, recorder.Errors[len(recorder.Errors)-1], "connection reset",
		"the underlying message surfaces in the notice")
}

func TestUpdateQuantity_ZeroDelegatesToRemove(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 2))
	require.NoError(t, s.UpdateQuantity(ctx, productLaptop.ID, 0))

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())

	_, _, _, del, _ := repo.calls()
	assert.Equal(t, 1, del, "quantity <= 0 becomes a delete, never a stored zero")
}

func TestUpdateQuantity_NegativeAlsoRemoves(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 2))
	require.NoError(t, s.UpdateQuantity(ctx, productLaptop.ID, -3))

	assert.Empty(t, s.Items())
}

func TestUpdateQuantity_MirrorsRemoteValue(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 1))
	require.NoError(t, s.UpdateQuantity(ctx, productLaptop.ID, 7))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestRemoveItem_SilentWithoutIdentity(t *testing.T) {
	repo := &mockCartRepo{}
	s, recorder := newSynchronizer(t, repo)

	require.NoError(t, s.RemoveItem(context.Background(), productLaptop.ID))
	assert.Zero(t, recorder.All())

	_, _, _, del, _ := repo.calls()
	assert.Zero(t, del)
}

func TestRemoveItem_MissingLocalLineStillDeletesRemotely(t *testing.T) {
	repo := &mockCartRepo{}
	s, recorder := authedSynchronizer(t, repo)

	require.NoError(t, s.RemoveItem(context.Background(), "unknown-product"))

	_, _, _, del, _ := repo.calls()
	assert.Equal(t, 1, del, "remote delete is attempted regardless")
	assert.Empty(t, recorder.Infos, "no notice when nothing matched locally")
}

func TestClear_EmptiesMirrorAfterRemoteDelete(t *testing.T) {
	repo := &mockCartRepo{}
	s, recorder := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 2))
	require.NoError(t, s.AddItem(ctx, productShoes, 1))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())

	_, _, _, _, delAll := repo.calls()
	assert.Equal(t, 1, delAll)
	assert.Contains(t, recorder.Infos, "Cart has been cleared")
}

func TestTotals_AreExactDerivations(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 2))
	require.NoError(t, s.AddItem(ctx, productShoes, 3))

	assert.Equal(t, 5, s.TotalItems())
	assert.InDelta(t, 2*1299.99+3*89.99, s.TotalPrice(), 0.001)

	summary := s.Summary()
	assert.Equal(t, s.TotalItems(), summary.TotalItems)
	assert.InDelta(t, s.TotalPrice(), summary.TotalPrice, 0.001)
	assert.Len(t, summary.Items, 2)
}

func TestSetUser_IdentityLossClearsWithoutRemoteCalls(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 2))
	require.NoError(t, s.SetUser(ctx, ""))

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())

	_, _, _, del, delAll := repo.calls()
	assert.Zero(t, del, "no remote delete on sign-out")
	assert.Zero(t, delAll, "no remote delete on sign-out")
}

func TestSetUser_ReplacesMirrorWholesale(t *testing.T) {
	repo := &mockCartRepo{listLines: []domain.CartLine{
		{Product: productLaptop, Quantity: 4},
		{Product: productShoes, Quantity: 1},
	}}
	s, _ := newSynchronizer(t, repo)

	require.NoError(t, s.SetUser(context.Background(), "u-1"))

	assert.Equal(t, 5, s.TotalItems())
	assert.Len(t, s.Items(), 2)
	assert.False(t, s.Loading())
}

func TestSetUser_FetchFailureSurfacesNotice(t *testing.T) {
	repo := &mockCartRepo{err: errors.New("timeout")}
	s, recorder := newSynchronizer(t, repo)

	err := s.SetUser(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, recorder.Errors, "Failed to load your cart")
}

func TestScenario_AddTwiceThenZeroQuantity(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, productLaptop, 1))
	require.NoError(t, s.AddItem(ctx, productLaptop, 1))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, s.TotalItems())

	require.NoError(t, s.UpdateQuantity(ctx, productLaptop.ID, 0))
	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())
}

func TestAddItem_SnapshotIsValueCopy(t *testing.T) {
	repo := &mockCartRepo{}
	s, _ := authedSynchronizer(t, repo)

	product := productLaptop
	require.NoError(t, s.AddItem(context.Background(), product, 1))

	// A later catalog edit must not retroactively change the line.
	product.Price = 1.00

	items := s.Items()
	require.Len(t, items, 1)
	assert.InDelta(t, 1299.99, items[0].Product.Price, 0.001)
}
