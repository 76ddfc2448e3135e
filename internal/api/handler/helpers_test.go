package handler

import (
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/storefront-api/internal/api/middleware"
	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// withUser builds a context as if the Auth middleware had resolved u.
func withUser(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, u *domain.User) echo.Context {
	c := e.NewContext(req, rec)
	middleware.SetCurrentUser(c, u)
	return c
}
