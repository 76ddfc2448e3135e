package ports

import (
	"context"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
