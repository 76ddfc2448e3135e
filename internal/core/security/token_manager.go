package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// TokenConfig holds the signing settings. Secret is shared by every instance
// that must verify tokens issued elsewhere.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// jwtClaims is the wire form of ports.TokenClaims.
type jwtClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now, for both issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(cfg TokenConfig, opts ...TokenOption) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token manager: empty signing secret")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	m := &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs claims. IssuedAt and ExpiresAt on the input are ignored.
func (m *TokenManager) Issue(claims ports.TokenClaims) (string, error) {
	if claims.Subject == "" || !claims.Role.Valid() {
		return "", fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	now := m.now().UTC()
	c := jwtClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.Subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims. On any failure
// the claims are discarded and one of domain.ErrTokenMalformed,
// domain.ErrTokenSignatureInvalid or domain.ErrTokenExpired is returned.
//
// The signature is checked over the raw segments before anything is decoded,
// so a token altered anywhere reports ErrTokenSignatureInvalid. Malformed is
// left for tokens without three segments and for correctly signed tokens
// whose contents do not parse.
func (m *TokenManager) Verify(token string) (*ports.TokenClaims, error) {
	if err := m.verifySignature(token); err != nil {
		return nil, err
	}

	var c jwtClaims
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenSignatureInvalid
	}
	if c.Subject == "" || !c.Role.Valid() || c.IssuedAt == nil {
		return nil, domain.ErrTokenMalformed
	}

	return &ports.TokenClaims{
		Subject:   c.Subject,
		Email:     c.Email,
		Role:      c.Role,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// verifySignature recomputes the HS256 MAC over "header.payload" and compares
// it with the third segment. A signature segment that is not strict base64url
// cannot match and counts as a mismatch.
func (m *TokenManager) verifySignature(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.ErrTokenMalformed
	}
	sig, err := jwt.NewParser(jwt.WithStrictDecoding()).DecodeSegment(parts[2])
	if err != nil {
		return domain.ErrTokenSignatureInvalid
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, m.secret); err != nil {
		return domain.ErrTokenSignatureInvalid
	}
	return nil
}

// classify maps jwt parse errors onto the domain token errors. It only sees
// tokens whose MAC already matched, so an expired token with a bad signature
// never gets here.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return domain.ErrTokenMalformed
	default:
		return domain.ErrTokenSignatureInvalid
	}
}
