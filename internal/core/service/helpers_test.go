package service

import (
	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

func tokenClaimsFor(u *domain.User) ports.TokenClaims {
	return ports.TokenClaims{Subject: u.ID, Email: u.Email, Role: u.Role}
}

func ptr[T any](v T) *T { return &v }

// publisherOrNil keeps a nil stub from becoming a non-nil interface value.
func publisherOrNil(p *stubPublisher) ports.AuditPublisher {
	if p == nil {
		return nil
	}
	return p
}
