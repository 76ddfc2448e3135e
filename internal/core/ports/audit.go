package ports

import (
	"context"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder writes a single audit event synchronously.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditPublisher hands an event off for asynchronous recording. It must not
// block the caller.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}
