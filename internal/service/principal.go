package service

import (
	"context"

	"tenantcore/internal/domain"
)

// PrincipalService manages principal lifecycle and identity links. Principals
// are created by an operator ahead of first login; the identity resolver only
// reads what this service has linked.
type PrincipalService struct {
	principals domain.PrincipalRepository
	links      domain.IdentityLinkRepository
}

// NewPrincipalService creates a new PrincipalService.
func NewPrincipalService(principals domain.PrincipalRepository, links domain.IdentityLinkRepository) *PrincipalService {
	return &PrincipalService{principals: principals, links: links}
}

// Create provisions a new principal.
func (s *PrincipalService) Create(ctx context.Context, req *domain.CreatePrincipalRequest) (*domain.Principal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.principals.Create(ctx, &domain.Principal{
		Name:       req.Name,
		SystemRole: req.SystemRole,
		Active:     true,
	})
}

// Get fetches a principal by id.
func (s *PrincipalService) Get(ctx context.Context, id string) (*domain.Principal, error) {
	return s.principals.GetByID(ctx, id)
}

// List returns a paginated list of principals.
func (s *PrincipalService) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error) {
	return s.principals.List(ctx, page)
}

// SetSystemRole changes a principal's system-level role. This affects only
// system-scope authorization; organization and workspace roles are untouched.
func (s *PrincipalService) SetSystemRole(ctx context.Context, id string, role domain.Role) error {
	if !domain.ValidRole(string(role)) {
		return domain.ErrValidation("system_role must be one of 'none', 'user', 'admin', 'owner'")
	}
	return s.principals.SetSystemRole(ctx, id, role)
}

// Deactivate disables a principal. Memberships and grants stay in place so a
// later reactivation restores prior access unchanged.
func (s *PrincipalService) Deactivate(ctx context.Context, id string) error {
	return s.principals.SetActive(ctx, id, false)
}

// Reactivate re-enables a previously deactivated principal.
func (s *PrincipalService) Reactivate(ctx context.Context, id string) error {
	return s.principals.SetActive(ctx, id, true)
}

// LinkIdentity attaches an external identity reference to a principal. A
// (issuer, subject) pair maps to exactly one principal; the unique constraint
// rejects a second link as a conflict.
func (s *PrincipalService) LinkIdentity(ctx context.Context, req *domain.LinkIdentityRequest) (*domain.IdentityLink, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.principals.GetByID(ctx, req.PrincipalID); err != nil {
		return nil, err
	}
	return s.links.Link(ctx, &domain.IdentityLink{
		PrincipalID: req.PrincipalID,
		Issuer:      req.Issuer,
		Subject:     req.Subject,
	})
}

// UnlinkIdentity removes an external identity mapping.
func (s *PrincipalService) UnlinkIdentity(ctx context.Context, issuer, subject string) error {
	return s.links.Unlink(ctx, issuer, subject)
}

// IdentityLinks returns the external references linked to a principal.
func (s *PrincipalService) IdentityLinks(ctx context.Context, principalID string) ([]domain.IdentityLink, error) {
	return s.links.ListForPrincipal(ctx, principalID)
}
