package redis

import "fmt"

// KeyBuilder builds environment-prefixed cache keys so production and
// staging can share one Redis instance.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a key builder for the given environment
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	switch environment {
	case "development", "staging":
		prefix = "staging"
	}
	return &KeyBuilder{prefix: prefix}
}

// GetPrefix returns the environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// BuildKey prefixes a raw key with the environment
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// KeyProductsAll is the cache key for the full product listing.
func (kb *KeyBuilder) KeyProductsAll() string {
	return kb.BuildKey("catalog:products:all")
}

// KeyProductByID is the cache key for a single product.
func (kb *KeyBuilder) KeyProductByID(productID string) string {
	return kb.BuildKey(fmt.Sprintf("catalog:product:%s", productID))
}

// KeyCartSnapshot is the cache key for a user's cart summary.
func (kb *KeyBuilder) KeyCartSnapshot(userID string) string {
	return kb.BuildKey(fmt.Sprintf("cart:user:%s:snapshot", userID))
}
