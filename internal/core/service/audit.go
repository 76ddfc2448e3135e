package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

// publish hands an audit event to p. A nil publisher disables auditing.
func publish(p ports.AuditPublisher, action domain.AuditAction, actorID, resourceType, resourceID, detail string) {
	if p == nil {
		return
	}
	p.Publish(domain.AuditEvent{
		ID:           uuid.NewString(),
		Action:       action,
		ActorID:      actorID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		At:           time.Now().UTC(),
	})
}
