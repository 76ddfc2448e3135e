package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/security"
)

func newAuthSvc(t *testing.T, repo *stubUserRepo, pub *stubPublisher) *AuthService {
	t.Helper()
	tokens, err := security.NewTokenManager(security.TokenConfig{Secret: "secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return NewAuthService(repo, security.NewBcryptHasher(bcrypt.MinCost), tokens, publisherOrNil(pub), discardLogger)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	pub := &stubPublisher{}
	svc := newAuthSvc(t, repo, pub)

	user, err := svc.Register(context.Background(), "Ann", "ann@x.com", "secret")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if user.Role != domain.RoleUser || user.Banned {
		t.Fatalf("expected USER and not banned, got role=%s banned=%v", user.Role, user.Banned)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if got := pub.actions(); len(got) != 1 || got[0] != domain.AuditUserRegistered {
		t.Fatalf("expected one registration audit event, got %v", got)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, &stubPublisher{})

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "secret"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), "Ann Again", "ann@x.com", "other")
	if !errors.Is(err, domain.ErrUserExists) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.byID))
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), nil)

	cases := []struct{ name, email, password string }{
		{"", "a@x.com", "secret"},
		{"   ", "a@x.com", "secret"},
		{"Ann", "", "secret"},
		{"Ann", "a@x.com", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.name, tc.email, tc.password); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Register(%q, %q, %q): expected ErrInvalidInput, got %v", tc.name, tc.email, tc.password, err)
		}
	}
}

func TestAuthService_Register_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("db unavailable")
	svc := newAuthSvc(t, repo, nil)

	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", "secret")
	if err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestAuthService_Login_Scenario(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ann", "ann@x.com", "secret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Login(ctx, "ann@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	token, user, err := svc.Login(ctx, "ann@x.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	resolved, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("token does not authenticate: %v", err)
	}
	if resolved.ID != registered.ID || resolved.Email != "ann@x.com" {
		t.Fatalf("unexpected identity: %+v", resolved)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), nil)

	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_BannedMatchesWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, nil)
	ctx := context.Background()

	banned, _ := svc.Register(ctx, "Ben", "ben@x.com", "correct")
	_, _ = svc.Register(ctx, "Cat", "cat@x.com", "correct")
	stored := repo.byID[banned.ID]
	stored.Banned = true

	_, _, bannedErr := svc.Login(ctx, "ben@x.com", "correct")
	_, _, wrongErr := svc.Login(ctx, "cat@x.com", "incorrect")
	_, _, unknownErr := svc.Login(ctx, "dan@x.com", "correct")

	if bannedErr != domain.ErrInvalidCredentials || wrongErr != domain.ErrInvalidCredentials || unknownErr != domain.ErrInvalidCredentials {
		t.Fatalf("expected identical ErrInvalidCredentials, got banned=%v wrong=%v unknown=%v", bannedErr, wrongErr, unknownErr)
	}
	if bannedErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", bannedErr, wrongErr)
	}
}

func TestAuthService_Login_EmptyFields(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), nil)

	if _, _, err := svc.Login(context.Background(), "", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@x.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UsesStoredRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, nil)
	ctx := context.Background()

	u, _ := svc.Register(ctx, "Ann", "ann@x.com", "secret")
	token, _, err := svc.Login(ctx, "ann@x.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	repo.byID[u.ID].Role = domain.RoleAdmin

	resolved, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if resolved.Role != domain.RoleAdmin {
		t.Fatalf("expected stored role ADMIN, got %s", resolved.Role)
	}
}

func TestAuthService_Authenticate_BannedAfterIssue(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, nil)
	ctx := context.Background()

	u, _ := svc.Register(ctx, "Ann", "ann@x.com", "secret")
	token, _, _ := svc.Login(ctx, "ann@x.com", "secret")

	repo.byID[u.ID].Banned = true

	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownSubject(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, nil)
	ctx := context.Background()

	u, _ := svc.Register(ctx, "Ann", "ann@x.com", "secret")
	token, _, _ := svc.Login(ctx, "ann@x.com", "secret")
	delete(repo.byID, u.ID)

	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Authenticate_BadTokens(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), nil)

	if _, err := svc.Authenticate(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}
	_, err := svc.Authenticate(context.Background(), "not-a-token")
	if !errors.Is(err, domain.ErrTokenMalformed) || !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected malformed/unauthenticated, got %v", err)
	}
}

func TestAuthService_Authenticate_ForeignSecret(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, nil)
	ctx := context.Background()

	u, _ := svc.Register(ctx, "Ann", "ann@x.com", "secret")

	other, _ := security.NewTokenManager(security.TokenConfig{Secret: "someone-else", TTL: time.Hour})
	forged, err := other.Issue(tokenClaimsFor(u))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Authenticate(ctx, forged); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}
