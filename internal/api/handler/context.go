package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/storefront-api/internal/api/middleware"
	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// actor returns the user resolved by the Auth middleware. Its absence means
// the route was mounted without authentication.
func actor(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}
