package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-api/internal/catalog"
	"storefront-api/pkg/errors"
	"storefront-api/pkg/logger"
)

// ProductHandler serves the product catalog
type ProductHandler struct {
	catalog *catalog.Service
	log     *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService *catalog.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalogService,
		log:     log,
	}
}

// List handles GET /api/products. The q parameter narrows by name or
// description, category by exact category name.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	products := h.catalog.Search(r.Context(), query, category)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// Get handles GET /api/products/{productId}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondAppError(w, errors.NewValidationError("Product ID is required", nil), h.log)
		return
	}

	product := h.catalog.Get(r.Context(), productID)
	if product == nil {
		respondAppError(w, errors.NewNotFoundError("Product not found"), h.log)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.catalog.Categories(),
	})
}
