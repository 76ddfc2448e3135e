package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

type ProductRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[string]domain.Product)}
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	stored := *p
	stored.ID = uuid.NewString()

	r.mu.Lock()
	r.items[stored.ID] = stored
	r.mu.Unlock()

	return &stored, nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDAndOwner(_ context.Context, id, ownerID string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok || ownerID == "" || p.OwnerID != ownerID {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// Update replaces the stored record. Owner and creation time are immutable.
func (r *ProductRepository) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[p.ID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	updated := *p
	updated.OwnerID = stored.OwnerID
	updated.CreatedAt = stored.CreatedAt
	r.items[p.ID] = updated

	return &updated, nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// ListApproved returns approved products, newest first.
func (r *ProductRepository) ListApproved(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	out := make([]*domain.Product, 0)
	for _, p := range r.items {
		if p.Approved {
			p := p
			out = append(out, &p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
