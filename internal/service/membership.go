package service

import (
	"context"

	"tenantcore/internal/domain"
)

// MembershipService manages (principal, scope, role) rows. It is the only
// write path into the membership store, which in turn is the single source of
// role truth for every authorization decision.
type MembershipService struct {
	memberships domain.MembershipRepository
	principals  domain.PrincipalRepository
	orgs        domain.OrganizationRepository
	workspaces  domain.WorkspaceRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	memberships domain.MembershipRepository,
	principals domain.PrincipalRepository,
	orgs domain.OrganizationRepository,
	workspaces domain.WorkspaceRepository,
) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		principals:  principals,
		orgs:        orgs,
		workspaces:  workspaces,
	}
}

// Add creates a membership row after verifying both sides exist. Adding a
// principal to an organization says nothing about any workspace within it;
// workspace membership is always granted separately.
func (s *MembershipService) Add(ctx context.Context, req *domain.AddMembershipRequest) (*domain.Membership, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.principals.GetByID(ctx, req.PrincipalID); err != nil {
		return nil, err
	}
	if err := s.scopeExists(ctx, req.ScopeKind, req.ScopeID); err != nil {
		return nil, err
	}
	return s.memberships.Add(ctx, &domain.Membership{
		PrincipalID: req.PrincipalID,
		ScopeKind:   req.ScopeKind,
		ScopeID:     req.ScopeID,
		Role:        req.Role,
	})
}

// SetRole changes the role on an existing membership row.
func (s *MembershipService) SetRole(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string, role domain.Role) error {
	if !role.IsMember() {
		return domain.ErrValidation("role must be 'user', 'admin', or 'owner'")
	}
	return s.memberships.SetRole(ctx, principalID, kind, scopeID, role)
}

// Remove deletes a membership row. The principal keeps any memberships it
// holds in other scopes.
func (s *MembershipService) Remove(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string) error {
	return s.memberships.Remove(ctx, principalID, kind, scopeID)
}

// RoleOf returns the principal's role in one scope instance, RoleNone when no
// membership row exists.
func (s *MembershipService) RoleOf(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string) (domain.Role, error) {
	role, err := s.memberships.RoleOf(ctx, principalID, kind, scopeID)
	if err != nil {
		return domain.RoleNone, domain.ErrStoreUnavailable(err, "role lookup for %s in %s %s", principalID, kind, scopeID)
	}
	return role, nil
}

// ListForScope returns the memberships of one scope instance.
func (s *MembershipService) ListForScope(ctx context.Context, kind domain.ScopeKind, scopeID string, page domain.PageRequest) ([]domain.Membership, int64, error) {
	return s.memberships.ListForScope(ctx, kind, scopeID, page)
}

// ListForPrincipal returns every membership a principal holds.
func (s *MembershipService) ListForPrincipal(ctx context.Context, principalID string) ([]domain.Membership, error) {
	return s.memberships.ListForPrincipal(ctx, principalID)
}

func (s *MembershipService) scopeExists(ctx context.Context, kind domain.ScopeKind, scopeID string) error {
	switch kind {
	case domain.ScopeOrganization:
		_, err := s.orgs.GetByID(ctx, scopeID)
		return err
	case domain.ScopeWorkspace:
		_, err := s.workspaces.GetByID(ctx, scopeID)
		return err
	default:
		return domain.ErrValidation("scope_kind must be 'organization' or 'workspace'")
	}
}
