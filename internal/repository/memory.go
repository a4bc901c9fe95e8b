package repository

import (
	"context"
	"sort"
	"sync"

	"storefront-api/internal/domain"
)

// MemoryCartRepository keeps cart rows in process memory. It backs the cart
// registry when no database is configured; carts then survive only as long
// as the process.
type MemoryCartRepository struct {
	lookup func(productID string) *domain.Product

	mu    sync.Mutex
	lines map[string]map[string]int
}

// NewMemoryCartRepository creates an in-memory cart store. The lookup
// resolves product snapshots for ListByUser.
func NewMemoryCartRepository(lookup func(productID string) *domain.Product) *MemoryCartRepository {
	return &MemoryCartRepository{
		lookup: lookup,
		lines:  make(map[string]map[string]int),
	}
}

func (r *MemoryCartRepository) ListByUser(_ context.Context, userID string) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.lines[userID]
	result := make([]domain.CartLine, 0, len(rows))
	for productID, quantity := range rows {
		product := r.lookup(productID)
		if product == nil {
			continue
		}
		result = append(result, domain.CartLine{Product: *product, Quantity: quantity})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Product.ID < result[j].Product.ID
	})
	return result, nil
}

func (r *MemoryCartRepository) Insert(_ context.Context, userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lines[userID] == nil {
		r.lines[userID] = make(map[string]int)
	}
	r.lines[userID][productID] = quantity
	return nil
}

func (r *MemoryCartRepository) UpdateQuantity(_ context.Context, userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lines[userID] == nil {
		r.lines[userID] = make(map[string]int)
	}
	r.lines[userID][productID] = quantity
	return nil
}

func (r *MemoryCartRepository) Delete(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lines[userID], productID)
	return nil
}

func (r *MemoryCartRepository) DeleteAll(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lines, userID)
	return nil
}

// EmptyProfileRepository serves the no-database mode; every lookup resolves
// to no profile so display names fall back to session metadata.
type EmptyProfileRepository struct{}

func NewEmptyProfileRepository() *EmptyProfileRepository {
	return &EmptyProfileRepository{}
}

func (r *EmptyProfileRepository) GetFullName(context.Context, string) (string, error) {
	return "", nil
}
