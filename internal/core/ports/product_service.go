package ports

import (
	"context"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// CreateProductInput carries the fields of a new product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// UpdateProductInput is a partial update; nil fields are left untouched.
// Setting Approved requires the admin role.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
	Approved    *bool
}

// ProductService defines use-case operations for products.
type ProductService interface {
	CreateProduct(ctx context.Context, actor *domain.User, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor *domain.User, id string, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor *domain.User, id string) error
	ApproveProduct(ctx context.Context, actor *domain.User, id string) (*domain.Product, error)
	ListApprovedProducts(ctx context.Context) ([]*domain.Product, error)
}
