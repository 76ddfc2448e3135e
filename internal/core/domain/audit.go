package domain

import "time"

// AuditAction names a mutation recorded in the audit trail.
type AuditAction string

const (
	AuditUserRegistered  AuditAction = "user.registered"
	AuditUserBanned      AuditAction = "user.banned"
	AuditUserUnbanned    AuditAction = "user.unbanned"
	AuditUserRoleChanged AuditAction = "user.role_changed"
	AuditProductCreated  AuditAction = "product.created"
	AuditProductUpdated  AuditAction = "product.updated"
	AuditProductDeleted  AuditAction = "product.deleted"
	AuditProductApproved AuditAction = "product.approved"
)

const (
	ResourceUser    = "user"
	ResourceProduct = "product"
)

// AuditEvent records who changed what. It is written after the mutation it
// describes has been persisted.
type AuditEvent struct {
	ID           string      `json:"id"`
	Action       AuditAction `json:"action"`
	ActorID      string      `json:"actor_id"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	Detail       string      `json:"detail,omitempty"`
	At           time.Time   `json:"at"`
}
