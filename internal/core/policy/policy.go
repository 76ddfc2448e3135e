// Package policy holds the authorization decisions. Every function is pure:
// it only inspects the actor it is given, which the caller must already have
// authenticated.
package policy

import "github.com/sirpyerre/storefront-api/internal/core/domain"

// RequireRole allows the actor iff it holds exactly role. Roles are flat:
// ADMIN does not inherit USER-only permissions and vice versa.
func RequireRole(actor *domain.User, role domain.Role) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if actor.Role != role {
		return domain.ErrForbidden
	}
	return nil
}

// RequireOwnerOrRole allows the actor if it owns the resource or holds role.
func RequireOwnerOrRole(actor *domain.User, ownerID string, role domain.Role) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if actor.ID != "" && actor.ID == ownerID {
		return nil
	}
	if actor.Role == role {
		return nil
	}
	return domain.ErrForbidden
}
