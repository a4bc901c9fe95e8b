package catalog

import (
	"context"
	"encoding/json"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
	"storefront-api/pkg/logger"
	"storefront-api/pkg/redis"
)

// Service serves product listings from the remote products table with a
// cache in front, degrading to the built-in catalog when the table cannot be
// reached. Cache and table failures cost freshness, never availability.
type Service struct {
	products repository.ProductRepository
	cache    *redis.Client
	log      *logger.Logger
}

// NewService creates a catalog service. Both the repository and the cache
// may be nil; the service then serves the built-in catalog.
func NewService(products repository.ProductRepository, cache *redis.Client, log *logger.Logger) *Service {
	return &Service{
		products: products,
		cache:    cache,
		log:      log,
	}
}

// List returns all products: cache, then table, then built-in fallback.
func (s *Service) List(ctx context.Context) []domain.Product {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cache.KeyBuilder.KeyProductsAll()); err == nil && cached != "" {
			var products []domain.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				s.log.Debug("Product listing cache hit")
				return products
			}
			s.log.Warn("Product listing cache corrupted, falling back to database")
		} else if err != nil && !redis.IsNil(err) {
			s.log.WithError(err).Warn("Product listing cache error, falling back to database")
		}
	}

	if s.products != nil {
		products, err := s.products.List(ctx)
		if err == nil && len(products) > 0 {
			s.cacheAsync(products)
			return products
		}
		if err != nil {
			s.log.WithError(err).Warn("Products table unreachable, serving built-in catalog")
		}
	}

	return Products
}

// Search returns the products matching the query and category filters.
func (s *Service) Search(ctx context.Context, query, category string) []domain.Product {
	return Filter(s.List(ctx), query, category)
}

// Categories returns the fixed category filter list.
func (s *Service) Categories() []domain.Category {
	return Categories
}

// Get returns one product by id, or nil when unknown.
func (s *Service) Get(ctx context.Context, productID string) *domain.Product {
	for _, p := range s.List(ctx) {
		if p.ID == productID {
			product := p
			return &product
		}
	}
	return nil
}

// cacheAsync stores the listing fire-and-forget.
func (s *Service) cacheAsync(products []domain.Product) {
	if s.cache == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(products)
		if err != nil {
			s.log.WithError(err).Error("Failed to marshal products for caching")
			return
		}
		if err := s.cache.Set(ctx, s.cache.KeyBuilder.KeyProductsAll(), string(data), redis.TTLProducts); err != nil {
			s.log.WithError(err).Warn("Failed to cache product listing")
		}
	}()
}
