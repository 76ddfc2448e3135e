package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these (via errors.Is) to HTTP status codes.
var (
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
)

var (
	ErrUserExists      = fmt.Errorf("user already exists: %w", ErrConflict)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
)

// Token verification failures. Each one is also an ErrUnauthenticated so
// callers that only care about "log in again" can match the parent.
var (
	ErrTokenMalformed        = fmt.Errorf("%w: token malformed", ErrUnauthenticated)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: token signature invalid", ErrUnauthenticated)
	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrUnauthenticated)
)
