// Package service implements the business logic of the tenant core on top of
// the domain repository interfaces.
package service

import (
	"context"
	"errors"

	"tenantcore/internal/domain"
)

// IdentityService resolves external identity references (issuer + subject
// from a verified token) to internal principals. It never auto-provisions:
// an unmapped identity is an authentication failure, not a new account.
type IdentityService struct {
	links      domain.IdentityLinkRepository
	principals domain.PrincipalRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(links domain.IdentityLinkRepository, principals domain.PrincipalRepository) *IdentityService {
	return &IdentityService{links: links, principals: principals}
}

// Resolve maps an external identity reference to its principal. A missing
// mapping yields an AuthenticationError; a failed lookup yields a
// StoreUnavailableError and is never collapsed into "unknown identity".
// Deactivated principals still resolve — downstream authorization denies them.
func (s *IdentityService) Resolve(ctx context.Context, issuer, subject string) (*domain.Principal, error) {
	if issuer == "" || subject == "" {
		return nil, domain.ErrAuthentication(domain.AuthInvalidToken, "token carries no identity reference")
	}

	principalID, err := s.links.FindPrincipal(ctx, issuer, subject)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrAuthentication(domain.AuthUnknownIdentity, "no principal linked to %s/%s", issuer, subject)
		}
		return nil, domain.ErrStoreUnavailable(err, "identity lookup for %s/%s", issuer, subject)
	}

	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			// Dangling link: the mapping exists but the principal row is gone.
			return nil, domain.ErrAuthentication(domain.AuthUnknownIdentity, "principal %s no longer exists", principalID)
		}
		return nil, domain.ErrStoreUnavailable(err, "load principal %s", principalID)
	}
	return p, nil
}
