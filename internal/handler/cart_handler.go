package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-api/internal/cart"
	"storefront-api/internal/catalog"
	"storefront-api/internal/domain"
	"storefront-api/internal/middleware"
	"storefront-api/pkg/errors"
	"storefront-api/pkg/logger"
)

// CartHandler exposes per-user cart operations. Every route requires a
// validated bearer token; the cart is keyed by the token subject.
type CartHandler struct {
	registry *cart.Registry
	catalog  *catalog.Service
	log      *logger.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(registry *cart.Registry, catalogService *catalog.Service, log *logger.Logger) *CartHandler {
	return &CartHandler{
		registry: registry,
		catalog:  catalogService,
		log:      log,
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sync, err := h.synchronizer(r)
	if err != nil {
		respondAppError(w, err, h.log)
		return
	}

	respondJSON(w, http.StatusOK, sync.Summary())
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sync, err := h.synchronizer(r)
	if err != nil {
		respondAppError(w, err, h.log)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.log)
		return
	}
	if req.ProductID == "" {
		respondAppError(w, errors.NewValidationError("Product ID is required", nil), h.log)
		return
	}

	product := h.catalog.Get(r.Context(), req.ProductID)
	if product == nil {
		respondAppError(w, errors.NewNotFoundError("Product not found"), h.log)
		return
	}

	if err := sync.AddItem(r.Context(), *product, req.Quantity); err != nil {
		respondAppError(w, err, h.log)
		return
	}

	respondJSON(w, http.StatusOK, sync.Summary())
}

// UpdateQuantity handles PUT /api/cart/items/{productId}. A quantity of zero
// or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sync, err := h.synchronizer(r)
	if err != nil {
		respondAppError(w, err, h.log)
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondAppError(w, errors.NewValidationError("Product ID is required", nil), h.log)
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.log)
		return
	}

	if err := sync.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		respondAppError(w, err, h.log)
		return
	}

	respondJSON(w, http.StatusOK, sync.Summary())
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sync, err := h.synchronizer(r)
	if err != nil {
		respondAppError(w, err, h.log)
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondAppError(w, errors.NewValidationError("Product ID is required", nil), h.log)
		return
	}

	if err := sync.RemoveItem(r.Context(), productID); err != nil {
		respondAppError(w, err, h.log)
		return
	}

	respondJSON(w, http.StatusOK, sync.Summary())
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sync, err := h.synchronizer(r)
	if err != nil {
		respondAppError(w, err, h.log)
		return
	}

	if err := sync.Clear(r.Context()); err != nil {
		respondAppError(w, err, h.log)
		return
	}

	respondJSON(w, http.StatusOK, sync.Summary())
}

// synchronizer resolves the caller's cart from the token subject.
func (h *CartHandler) synchronizer(r *http.Request) (*cart.Synchronizer, error) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*domain.TokenClaims)
	if !ok || claims == nil || claims.Sub == "" {
		return nil, errors.NewAuthenticationError("Authentication required")
	}
	return h.registry.Get(r.Context(), claims.Sub)
}
