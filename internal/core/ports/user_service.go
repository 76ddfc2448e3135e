package ports

import (
	"context"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// UserService holds the admin-only user management use cases.
type UserService interface {
	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	BanUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	UnbanUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	ChangeUserRole(ctx context.Context, actor *domain.User, id string, role domain.Role) (*domain.User, error)
}
