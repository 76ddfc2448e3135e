package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

const userContextKey = "auth.user"

// Authenticator resolves a bearer token to the current user record.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth resolves the bearer token and injects the user into the echo context.
// Every failure is reported as domain.ErrUnauthenticated; the error handler
// renders it without revealing which check failed.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrUnauthenticated
			}

			user, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}

// CurrentUser returns the user set by Auth, or nil on unauthenticated routes.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userContextKey).(*domain.User)
	return u
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
