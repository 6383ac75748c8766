package service

import (
	"context"

	"tenantcore/internal/domain"
)

// ScopeAdminService manages organization and workspace lifecycle.
type ScopeAdminService struct {
	orgs       domain.OrganizationRepository
	workspaces domain.WorkspaceRepository
}

// NewScopeAdminService creates a new ScopeAdminService.
func NewScopeAdminService(orgs domain.OrganizationRepository, workspaces domain.WorkspaceRepository) *ScopeAdminService {
	return &ScopeAdminService{orgs: orgs, workspaces: workspaces}
}

// CreateOrganization creates a new top-level tenant boundary.
func (s *ScopeAdminService) CreateOrganization(ctx context.Context, req *domain.CreateOrganizationRequest) (*domain.Organization, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.orgs.Create(ctx, &domain.Organization{Name: req.Name})
}

// GetOrganization fetches an organization by id.
func (s *ScopeAdminService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

// ListOrganizations returns a paginated list of organizations.
func (s *ScopeAdminService) ListOrganizations(ctx context.Context, page domain.PageRequest) ([]domain.Organization, int64, error) {
	return s.orgs.List(ctx, page)
}

// DeleteOrganization removes an organization. Workspaces, memberships, and
// overrides under it cascade away.
func (s *ScopeAdminService) DeleteOrganization(ctx context.Context, id string) error {
	return s.orgs.Delete(ctx, id)
}

// CreateWorkspace creates a workspace nested in an existing organization.
func (s *ScopeAdminService) CreateWorkspace(ctx context.Context, req *domain.CreateWorkspaceRequest) (*domain.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.orgs.GetByID(ctx, req.OrgID); err != nil {
		return nil, err
	}
	return s.workspaces.Create(ctx, &domain.Workspace{OrgID: req.OrgID, Name: req.Name})
}

// GetWorkspace fetches a workspace by id.
func (s *ScopeAdminService) GetWorkspace(ctx context.Context, id string) (*domain.Workspace, error) {
	return s.workspaces.GetByID(ctx, id)
}

// ListWorkspaces returns a paginated list of an organization's workspaces.
func (s *ScopeAdminService) ListWorkspaces(ctx context.Context, orgID string, page domain.PageRequest) ([]domain.Workspace, int64, error) {
	return s.workspaces.ListForOrg(ctx, orgID, page)
}

// DeleteWorkspace removes a workspace.
func (s *ScopeAdminService) DeleteWorkspace(ctx context.Context, id string) error {
	return s.workspaces.Delete(ctx, id)
}
