package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sirpyerre/storefront-api/internal/api/metrics"
	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

const (
	catalogKey      = "catalog:approved"
	defaultCacheTTL = time.Minute
)

// CatalogCache stores the approved-product listing as a single JSON value.
// It implements ports.CatalogCache.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache wraps client. A non-positive ttl falls back to one minute.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// GetApproved returns the cached listing. ok is false on a miss.
func (c *CatalogCache) GetApproved(ctx context.Context) ([]*domain.Product, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("catalog cache get: %w", err)
	}

	products, err := decodeCatalog(raw)
	if err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		return nil, false, err
	}

	metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
	return products, true, nil
}

// SetApproved replaces the cached listing (expires after the configured TTL).
func (c *CatalogCache) SetApproved(ctx context.Context, products []*domain.Product) error {
	raw, err := encodeCatalog(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey, raw, c.ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}

func encodeCatalog(products []*domain.Product) ([]byte, error) {
	if products == nil {
		products = []*domain.Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("catalog cache encode: %w", err)
	}
	return raw, nil
}

func decodeCatalog(raw []byte) ([]*domain.Product, error) {
	var products []*domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("catalog cache decode: %w", err)
	}
	return products, nil
}
