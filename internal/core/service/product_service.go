package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/policy"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.CatalogCache
	audit  ports.AuditPublisher
	logger zerolog.Logger

	// catalogGen is bumped by every product write, before the cache is
	// invalidated. A listing read under an older generation is not left
	// in the cache.
	catalogGen atomic.Uint64
}

// NewProductService wires the product use cases. cache and audit may be nil.
func NewProductService(
	repo ports.ProductRepository,
	cache ports.CatalogCache,
	audit ports.AuditPublisher,
	logger zerolog.Logger,
) *ProductService {
	return &ProductService{repo: repo, cache: cache, audit: audit, logger: logger}
}

// CreateProduct stores a new, unapproved product owned by actor.
func (s *ProductService) CreateProduct(ctx context.Context, actor *domain.User, input ports.CreateProductInput) (*domain.Product, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price < 0 || input.Quantity < 0 {
		return nil, fmt.Errorf("create product: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Product{
		OwnerID:     actor.ID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Approved:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("owner_id", actor.ID).Msg("product created")
	publish(s.audit, domain.AuditProductCreated, actor.ID, domain.ResourceProduct, created.ID, "")
	return created, nil
}

// UpdateProduct applies a partial update. Non-admins can only reach their
// own products; anything else is reported as domain.ErrProductNotFound.
func (s *ProductService) UpdateProduct(ctx context.Context, actor *domain.User, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if input.Approved != nil {
		if err := policy.RequireRole(actor, domain.RoleAdmin); err != nil {
			return nil, err
		}
	}
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	p, err := s.findForMutation(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Quantity != nil {
		p.Quantity = *input.Quantity
	}
	if input.Approved != nil {
		p.Approved = *input.Approved
	}
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("product_id", updated.ID).Str("actor_id", actor.ID).Msg("product updated")
	publish(s.audit, domain.AuditProductUpdated, actor.ID, domain.ResourceProduct, updated.ID, "")
	return updated, nil
}

// DeleteProduct removes a product under the same visibility rule as UpdateProduct.
func (s *ProductService) DeleteProduct(ctx context.Context, actor *domain.User, id string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	p, err := s.findForMutation(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("product_id", p.ID).Str("actor_id", actor.ID).Msg("product deleted")
	publish(s.audit, domain.AuditProductDeleted, actor.ID, domain.ResourceProduct, p.ID, "")
	return nil
}

// ApproveProduct marks a product approved. Admin only, regardless of ownership.
func (s *ProductService) ApproveProduct(ctx context.Context, actor *domain.User, id string) (*domain.Product, error) {
	if err := policy.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Approved = true
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("approve product: %w", err)
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("product_id", updated.ID).Str("actor_id", actor.ID).Msg("product approved")
	publish(s.audit, domain.AuditProductApproved, actor.ID, domain.ResourceProduct, updated.ID, "")
	return updated, nil
}

// ListApprovedProducts returns the public catalog, read through the cache.
func (s *ProductService) ListApprovedProducts(ctx context.Context) ([]*domain.Product, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetApproved(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed, falling back to store")
		} else if ok {
			return cached, nil
		}
	}

	gen := s.catalogGen.Load()
	products, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetApproved(ctx, products); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		} else if s.catalogGen.Load() != gen {
			// A product changed while the store was being read.
			s.invalidateCache(ctx)
		}
	}
	return products, nil
}

// findForMutation resolves the target of an owner-scoped operation. Admins
// hold the override role and look up by id alone; for everyone else the
// ownership check is the id+owner filter of the single lookup.
func (s *ProductService) findForMutation(ctx context.Context, actor *domain.User, id string) (*domain.Product, error) {
	if err := policy.RequireRole(actor, domain.RoleAdmin); err != nil {
		return s.repo.FindByIDAndOwner(ctx, id, actor.ID)
	}
	return s.repo.FindByID(ctx, id)
}

// invalidateCatalog marks a product write. Call it after the write succeeded.
func (s *ProductService) invalidateCatalog(ctx context.Context) {
	s.catalogGen.Add(1)
	s.invalidateCache(ctx)
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func validateUpdate(in ports.UpdateProductInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return fmt.Errorf("update product: %w", domain.ErrInvalidInput)
	}
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("update product: %w", domain.ErrInvalidInput)
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return fmt.Errorf("update product: %w", domain.ErrInvalidInput)
	}
	return nil
}
