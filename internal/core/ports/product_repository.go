package ports

import (
	"context"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Missing records are reported as domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDAndOwner matches on both id and owner_id in a single query, so a
	// product owned by someone else is indistinguishable from a missing one.
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	ListApproved(ctx context.Context) ([]*domain.Product, error)
}
