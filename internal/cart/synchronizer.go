// Package cart keeps a local mirror of a user's remote cart rows in sync
// across mutations. The mirror is a read-through, write-before-mirror cache:
// every mutator issues the remote write first and only commits locally after
// it succeeds, so a failed remote call never corrupts local state. The only
// invalidation is the wholesale refetch on identity change.
package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"storefront-api/internal/domain"
	"storefront-api/internal/notice"
	"storefront-api/internal/repository"
	"storefront-api/pkg/errors"
	"storefront-api/pkg/logger"
)

// ErrNotAuthenticated refuses cart mutations without a resolved identity.
var ErrNotAuthenticated = errors.NewAuthenticationError("Please log in to add items to your cart")

// Synchronizer mirrors one identity's cart. Concurrent mutations are not
// serialized; the last write to the mirror wins, in whatever order the
// remote calls settled.
type Synchronizer struct {
	repo    repository.CartRepository
	notices notice.Sink
	log     *logger.Logger

	mu      sync.RWMutex
	userID  string
	lines   map[string]domain.CartLine
	loading bool
}

// NewSynchronizer creates a synchronizer with no identity and an empty
// mirror.
func NewSynchronizer(repo repository.CartRepository, notices notice.Sink, log *logger.Logger) *Synchronizer {
	return &Synchronizer{
		repo:    repo,
		notices: notices,
		log:     log,
		lines:   make(map[string]domain.CartLine),
	}
}

// SetUser reacts to an identity change. A present identity triggers a
// wholesale refetch that replaces the mirror; an absent identity clears the
// mirror immediately with no remote call.
func (s *Synchronizer) SetUser(ctx context.Context, userID string) error {
	if userID == "" {
		s.mu.Lock()
		s.userID = ""
		s.lines = make(map[string]domain.CartLine)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.userID = userID
	s.loading = true
	s.mu.Unlock()

	lines, err := s.repo.ListByUser(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to fetch cart")
		s.notices.Error("Failed to load your cart")
		return err
	}
	if s.userID != userID {
		// Identity changed again while the fetch was in flight.
		return nil
	}

	s.lines = make(map[string]domain.CartLine, len(lines))
	for _, line := range lines {
		s.lines[line.Product.ID] = line
	}
	return nil
}

// UserID returns the identity the mirror is bound to, or empty.
func (s *Synchronizer) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Loading reports whether a refetch is in progress.
func (s *Synchronizer) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// AddItem adds quantity of the product, merging into an existing line. The
// product snapshot is copied by value at add time.
func (s *Synchronizer) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.RLock()
	userID := s.userID
	existing, exists := s.lines[product.ID]
	s.mu.RUnlock()

	if userID == "" {
		s.notices.Error("Please log in to add items to your cart")
		return ErrNotAuthenticated
	}

	if exists {
		newQuantity := existing.Quantity + quantity
		if err := s.repo.UpdateQuantity(ctx, userID, product.ID, newQuantity); err != nil {
			s.failMutation(err, "Failed to update cart")
			return err
		}

		s.mu.Lock()
		if line, ok := s.lines[product.ID]; ok {
			line.Quantity = newQuantity
			s.lines[product.ID] = line
		}
		s.mu.Unlock()

		s.notices.Success(fmt.Sprintf("Updated: %s quantity", product.Name))
		return nil
	}

	if err := s.repo.Insert(ctx, userID, product.ID, quantity); err != nil {
		s.failMutation(err, "Failed to update cart")
		return err
	}

	s.mu.Lock()
	s.lines[product.ID] = domain.CartLine{Product: product, Quantity: quantity}
	s.mu.Unlock()

	s.notices.Success(fmt.Sprintf("Added to cart: %s", product.Name))
	return nil
}

// RemoveItem deletes the line for the product. Without an identity this is a
// silent no-op. The remote delete is attempted even when no local line
// matches; only a matching local line produces a notice.
func (s *Synchronizer) RemoveItem(ctx context.Context, productID string) error {
	s.mu.RLock()
	userID := s.userID
	removed, existed := s.lines[productID]
	s.mu.RUnlock()

	if userID == "" {
		return nil
	}

	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		s.failMutation(err, "Failed to remove item from cart")
		return err
	}

	s.mu.Lock()
	delete(s.lines, productID)
	s.mu.Unlock()

	if existed {
		s.notices.Info(fmt.Sprintf("Removed from cart: %s", removed.Product.Name))
	}
	return nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line; no line is ever stored with a non-positive quantity.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()

	if userID == "" {
		return nil
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	if err := s.repo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		s.failMutation(err, "Failed to update quantity")
		return err
	}

	s.mu.Lock()
	if line, ok := s.lines[productID]; ok {
		line.Quantity = quantity
		s.lines[productID] = line
	}
	s.mu.Unlock()

	return nil
}

// Clear deletes every remote line for the identity, then empties the mirror.
func (s *Synchronizer) Clear(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()

	if userID == "" {
		return nil
	}

	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		s.failMutation(err, "Failed to clear cart")
		return err
	}

	s.mu.Lock()
	s.lines = make(map[string]domain.CartLine)
	s.mu.Unlock()

	s.notices.Info("Cart has been cleared")
	return nil
}

// Items returns the current lines sorted by product id.
func (s *Synchronizer) Items() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.CartLine, 0, len(s.lines))
	for _, line := range s.lines {
		items = append(items, line)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Product.ID < items[j].Product.ID
	})
	return items
}

// TotalItems is the sum of quantities across current lines.
func (s *Synchronizer) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity across current lines.
func (s *Synchronizer) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, line := range s.lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// Summary bundles the lines with their derived aggregates.
func (s *Synchronizer) Summary() domain.CartSummary {
	return domain.CartSummary{
		Items:      s.Items(),
		TotalItems: s.TotalItems(),
		TotalPrice: s.TotalPrice(),
	}
}

// failMutation surfaces a remote failure as a user-facing notice, preferring
// the underlying message when one is available.
func (s *Synchronizer) failMutation(err error, fallback string) {
	s.log.WithError(err).Error("Cart mutation failed")

	message := fallback
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	s.notices.Error(message)
}
