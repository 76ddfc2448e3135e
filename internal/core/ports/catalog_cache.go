package ports

import (
	"context"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// CatalogCache caches the public listing of approved products. A miss is
// reported as (nil, false, nil).
type CatalogCache interface {
	GetApproved(ctx context.Context) ([]*domain.Product, bool, error)
	SetApproved(ctx context.Context, products []*domain.Product) error
	Invalidate(ctx context.Context) error
}
