package memory

import (
	"context"
	"sync"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// AuditRepository keeps recorded events in insertion order.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	r.events = append(r.events, *event)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *AuditRepository) Events() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}
