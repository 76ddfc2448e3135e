package ports

import (
	"context"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups that find nothing return
// domain.ErrUserNotFound; Create returns domain.ErrUserExists when the email
// is already taken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update persists Name, Role and Banned of an existing user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
