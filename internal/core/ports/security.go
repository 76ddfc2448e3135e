package ports

import (
	"time"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

// PasswordHasher hashes and checks passwords. Verify never errors: a malformed
// digest simply does not match.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenClaims is the fixed claim set carried by an access token.
type TokenClaims struct {
	Subject   string
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and verifies signed access tokens.
type TokenManager interface {
	Issue(claims TokenClaims) (string, error)
	Verify(token string) (*TokenClaims, error)
}
