package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			if name != "Ann" || email != "ann@x.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return &domain.User{ID: "u-1", Name: name, Email: email, Role: domain.RoleUser, PasswordHash: "$2a$hash"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"secret"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "ann@x.com" || resp["role"] != "USER" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatal("password hash leaked in response")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"secret"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	bodies := []string{
		`{"email":"ann@x.com","password":"secret"}`,
		`{"name":"Ann","email":"not-an-email","password":"secret"}`,
		`{"name":"Ann","email":"ann@x.com","password":"123"}`,
	}
	for _, body := range bodies {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", body), httptest.NewRecorder())
		if code := httpStatus(t, handler.Register(c)); code != http.StatusUnprocessableEntity {
			t.Errorf("body %s: expected 422, got %d", body, code)
		}
	}

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":`), httptest.NewRecorder())
	if code := httpStatus(t, handler.Register(c)); code != http.StatusBadRequest {
		t.Errorf("malformed json: expected 400, got %d", code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "signed.jwt.token", &domain.User{ID: "u-1", Email: email, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "signed.jwt.token" || resp.TokenType != "Bearer" || resp.User.ID != "u-1" {
		t.Fatalf("unexpected login payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	// "wrong" is shorter than the registration minimum and must still reach the service.
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"wrong"}`), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), rec)
	if err := handler.Profile(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without a user, got %v", err)
	}

	c = withUser(e, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), rec, &domain.User{ID: "u-1", Email: "ann@x.com", Role: domain.RoleUser})
	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"u-1"`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}
