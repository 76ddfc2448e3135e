package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/policy"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

// UserService implements the admin-only user management use cases.
type UserService struct {
	users ports.UserRepository
	audit ports.AuditPublisher
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, audit ports.AuditPublisher, log zerolog.Logger) *UserService {
	return &UserService{users: users, audit: audit, log: log}
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if err := policy.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) BanUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := policy.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, domain.AuditUserBanned, func(u *domain.User) { u.Banned = true })
}

func (s *UserService) UnbanUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := policy.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, domain.AuditUserUnbanned, func(u *domain.User) { u.Banned = false })
}

// ChangeUserRole sets the role of the user. Tokens already issued keep their
// embedded role, but Authenticate always resolves the stored one.
func (s *UserService) ChangeUserRole(ctx context.Context, actor *domain.User, id string, role domain.Role) (*domain.User, error) {
	if err := policy.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("change role: %w", domain.ErrInvalidInput)
	}
	return s.mutate(ctx, actor, id, domain.AuditUserRoleChanged, func(u *domain.User) { u.Role = role })
}

// mutate loads the user, applies the change and writes it back once. Callers
// have already authorized actor.
func (s *UserService) mutate(
	ctx context.Context,
	actor *domain.User,
	id string,
	action domain.AuditAction,
	apply func(*domain.User),
) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(user)
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	s.log.Info().
		Str("actor_id", actor.ID).
		Str("user_id", updated.ID).
		Str("action", string(action)).
		Msg("user updated")
	detail := ""
	if action == domain.AuditUserRoleChanged {
		detail = string(updated.Role)
	}
	publish(s.audit, action, actor.ID, domain.ResourceUser, updated.ID, detail)
	return updated, nil
}
