package service

import (
	"context"

	"tenantcore/internal/domain"
)

// SessionService manages each principal's explicit organization selection —
// the only accepted source of an organization id for org-scoped requests.
type SessionService struct {
	sessions    domain.SessionScopeRepository
	orgs        domain.OrganizationRepository
	memberships domain.MembershipRepository
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	sessions domain.SessionScopeRepository,
	orgs domain.OrganizationRepository,
	memberships domain.MembershipRepository,
) *SessionService {
	return &SessionService{sessions: sessions, orgs: orgs, memberships: memberships}
}

// SelectOrganization records the principal's operating organization. The
// organization must exist and the principal must be a member of it — a
// selection is a claim the store has to back.
func (s *SessionService) SelectOrganization(ctx context.Context, principalID, orgID string) error {
	if orgID == "" {
		return domain.ErrValidation("org_id is required")
	}
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return err
	}
	role, err := s.memberships.RoleOf(ctx, principalID, domain.ScopeOrganization, orgID)
	if err != nil {
		return domain.ErrStoreUnavailable(err, "role lookup for %s in organization %s", principalID, orgID)
	}
	if !role.IsMember() {
		return domain.ErrAccessDenied("not a member of organization %s", orgID)
	}
	return s.sessions.SetActiveOrg(ctx, principalID, orgID)
}

// ClearSelection removes the principal's organization selection.
func (s *SessionService) ClearSelection(ctx context.Context, principalID string) error {
	return s.sessions.ClearActiveOrg(ctx, principalID)
}

// ActiveOrganization returns the selected organization id, or "" when none.
func (s *SessionService) ActiveOrganization(ctx context.Context, principalID string) (string, error) {
	return s.sessions.ActiveOrgOf(ctx, principalID)
}
