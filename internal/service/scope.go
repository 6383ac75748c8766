package service

import (
	"context"
	"errors"

	"tenantcore/internal/domain"
)

// ScopeRequest carries the raw scope signals extracted from a request before
// resolution. System takes priority over WorkspaceID; when neither is set the
// request targets the principal's selected organization.
type ScopeRequest struct {
	System      bool
	WorkspaceID string
}

// ScopeService turns raw request signals into a validated ScopeContext.
// Workspace ids come from the request path only; organization ids come from
// the principal's explicit session selection only. Neither is ever read from
// headers or query parameters.
type ScopeService struct {
	memberships domain.MembershipRepository
	orgs        domain.OrganizationRepository
	sessions    domain.SessionScopeRepository
}

// NewScopeService creates a new ScopeService.
func NewScopeService(
	memberships domain.MembershipRepository,
	orgs domain.OrganizationRepository,
	sessions domain.SessionScopeRepository,
) *ScopeService {
	return &ScopeService{memberships: memberships, orgs: orgs, sessions: sessions}
}

// Resolve produces the ScopeContext a request targets. Malformed or missing
// scope identifiers yield ScopeNotFoundError before any authorization check
// runs; store failures propagate as StoreUnavailableError.
func (s *ScopeService) Resolve(ctx context.Context, principalID string, req ScopeRequest) (domain.ScopeContext, error) {
	if req.System {
		return domain.SystemScope(), nil
	}
	if req.WorkspaceID != "" {
		return s.resolveWorkspace(ctx, req.WorkspaceID)
	}
	return s.resolveSelectedOrg(ctx, principalID)
}

// resolveWorkspace validates a path-supplied workspace id and resolves its
// parent organization so downstream code never re-derives it.
func (s *ScopeService) resolveWorkspace(ctx context.Context, workspaceID string) (domain.ScopeContext, error) {
	orgID, err := s.memberships.ParentScopeOf(ctx, workspaceID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return domain.ScopeContext{}, domain.ErrScopeNotFound("workspace %s not found", workspaceID)
		}
		return domain.ScopeContext{}, domain.ErrStoreUnavailable(err, "resolve parent of workspace %s", workspaceID)
	}
	return domain.WorkspaceScope(workspaceID, orgID), nil
}

// resolveSelectedOrg reads the principal's session selection. No selection is
// a scope error, not an authorization denial: the request has no target.
func (s *ScopeService) resolveSelectedOrg(ctx context.Context, principalID string) (domain.ScopeContext, error) {
	orgID, err := s.sessions.ActiveOrgOf(ctx, principalID)
	if err != nil {
		return domain.ScopeContext{}, domain.ErrStoreUnavailable(err, "read session selection for %s", principalID)
	}
	if orgID == "" {
		return domain.ScopeContext{}, domain.ErrScopeNotFound("no organization selected for this session")
	}
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			// Stale selection pointing at a deleted organization.
			return domain.ScopeContext{}, domain.ErrScopeNotFound("selected organization %s no longer exists", orgID)
		}
		return domain.ScopeContext{}, domain.ErrStoreUnavailable(err, "load organization %s", orgID)
	}
	return domain.OrganizationScope(orgID), nil
}
