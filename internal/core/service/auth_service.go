package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so that path costs as much as a wrong password.
const dummyPassword = "storefront-dummy-password"

// AuthService implements registration, login and request authentication.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenManager
	audit  ports.AuditPublisher
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, audit: audit, log: log}
}

// Register creates a USER account. A taken email yields domain.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || email == "" {
		return nil, fmt.Errorf("register: %w", domain.ErrInvalidInput)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Banned:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	publish(s.audit, domain.AuditUserRegistered, created.ID, domain.ResourceUser, created.ID, "")
	return created, nil
}

// Login checks credentials and issues an access token. Unknown email, banned
// account and wrong password all return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(password, s.dummyDigest())
		return "", nil, domain.ErrInvalidCredentials
	}

	passwordOK := s.hasher.Verify(password, user.PasswordHash)
	if user.Banned || !passwordOK {
		s.log.Debug().Str("user_id", user.ID).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ports.TokenClaims{
		Subject: user.ID,
		Email:   user.Email,
		Role:    user.Role,
	})
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	return token, user, nil
}

// Authenticate verifies a bearer token and re-resolves its subject from the
// store. The returned user carries the stored role, not the token's; a
// subject that no longer exists or has been banned is unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user.Banned {
		return nil, domain.ErrUnauthenticated
	}

	return user, nil
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
