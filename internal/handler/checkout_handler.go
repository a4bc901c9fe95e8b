package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront-api/internal/cart"
	"storefront-api/internal/domain"
	"storefront-api/internal/middleware"
	"storefront-api/pkg/errors"
	"storefront-api/pkg/logger"
)

// CheckoutHandler turns the caller's cart into a simulated order. No payment
// is taken; the order is acknowledged and the cart emptied.
type CheckoutHandler struct {
	registry *cart.Registry
	log      *logger.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(registry *cart.Registry, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		registry: registry,
		log:      log,
	}
}

type checkoutRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	PostCode string `json:"post_code"`
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*domain.TokenClaims)
	if !ok || claims == nil || claims.Sub == "" {
		respondAppError(w, errors.NewAuthenticationError("Authentication required"), h.log)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.log)
		return
	}
	if err := validateCheckoutRequest(&req); err != nil {
		respondAppError(w, err, h.log)
		return
	}

	sync, err := h.registry.Get(r.Context(), claims.Sub)
	if err != nil {
		respondAppError(w, err, h.log)
		return
	}

	summary := sync.Summary()
	if len(summary.Items) == 0 {
		respondAppError(w, errors.NewValidationError("Your cart is empty", nil), h.log)
		return
	}

	order := domain.Order{
		ID:         uuid.NewString(),
		UserID:     claims.Sub,
		Items:      summary.Items,
		TotalItems: summary.TotalItems,
		TotalPrice: summary.TotalPrice,
		Shipping: domain.Shipping{
			FullName: strings.TrimSpace(req.FullName),
			Email:    strings.TrimSpace(req.Email),
			Address:  strings.TrimSpace(req.Address),
			City:     strings.TrimSpace(req.City),
			PostCode: strings.TrimSpace(req.PostCode),
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := sync.Clear(r.Context()); err != nil {
		respondAppError(w, err, h.log)
		return
	}

	h.log.WithFields(map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     claims.Sub,
		"total_items": order.TotalItems,
	}).Info("Order placed")

	respondJSON(w, http.StatusCreated, order)
}

func validateCheckoutRequest(req *checkoutRequest) error {
	if strings.TrimSpace(req.FullName) == "" {
		return errors.NewValidationError("Full name is required", nil)
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return errors.NewValidationError("A valid email is required", nil)
	}
	if strings.TrimSpace(req.Address) == "" {
		return errors.NewValidationError("Address is required", nil)
	}
	if strings.TrimSpace(req.City) == "" {
		return errors.NewValidationError("City is required", nil)
	}
	return nil
}
