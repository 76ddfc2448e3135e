package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditRecorder that persists events through repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditRecorder {
	return &auditService{repo: repo, log: log}
}

// Record validates and persists a single audit event.
func (s *auditService) Record(ctx context.Context, event domain.AuditEvent) error {
	if event.Action == "" || event.ResourceID == "" {
		return fmt.Errorf("record audit event: %w", domain.ErrInvalidInput)
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Str("resource_id", event.ResourceID).
		Msg("audit event recorded")
	return nil
}
