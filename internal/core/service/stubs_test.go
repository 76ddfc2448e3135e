package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	findErr   error // if set, FindByEmail/FindByID return this error
	createErr error
	updates   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("u-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.updates++
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

// seed stores a user directly, bypassing the service.
func (r *stubUserRepo) seed(u domain.User) *domain.User {
	stored := cloneUser(&u)
	r.byID[stored.ID] = stored
	return cloneUser(stored)
}

type stubProductRepo struct {
	byID           map[string]*domain.Product
	nextID         int
	lastOwnerQuery string // ownerID passed to the last FindByIDAndOwner call
	ownerLookups   int
	idLookups      int
	writes         int
	updateErr      error

	// afterListSnapshot runs once ListApproved has taken its snapshot.
	afterListSnapshot func()
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	clone := *p
	clone.ID = fmt.Sprintf("p-%d", r.nextID)
	r.byID[clone.ID] = &clone
	r.writes++
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.idLookups++
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

// FindByIDAndOwner mirrors the real query: both fields must match.
func (r *stubProductRepo) FindByIDAndOwner(_ context.Context, id, ownerID string) (*domain.Product, error) {
	r.ownerLookups++
	r.lastOwnerQuery = ownerID
	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.byID[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	r.writes++
	out := clone
	return &out, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	r.writes++
	return nil
}

func (r *stubProductRepo) ListApproved(_ context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		if p.Approved {
			clone := *p
			out = append(out, &clone)
		}
	}
	if hook := r.afterListSnapshot; hook != nil {
		r.afterListSnapshot = nil
		hook()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Audit / cache stubs
// ---------------------------------------------------------------------------

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (p *stubPublisher) Publish(e domain.AuditEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *stubPublisher) actions() []domain.AuditAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type stubCatalogCache struct {
	products    []*domain.Product
	filled      bool
	getErr      error
	gets        int
	sets        int
	invalidated int
}

func (c *stubCatalogCache) GetApproved(_ context.Context) ([]*domain.Product, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.products, c.filled, nil
}

func (c *stubCatalogCache) SetApproved(_ context.Context, products []*domain.Product) error {
	c.sets++
	c.products = products
	c.filled = true
	return nil
}

func (c *stubCatalogCache) Invalidate(_ context.Context) error {
	c.invalidated++
	c.products = nil
	c.filled = false
	return nil
}

type stubAuditRepo struct {
	inserted  []*domain.AuditEvent
	insertErr error
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}
