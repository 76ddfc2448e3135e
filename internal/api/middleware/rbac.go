package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/policy"
)

// RequireRole rejects requests whose authenticated user lacks role. It must
// run after Auth. The services repeat the check; this only fails fast.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.RequireRole(CurrentUser(c), role); err != nil {
				return err
			}
			return next(c)
		}
	}
}
