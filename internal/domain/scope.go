package domain

import "time"

// ScopeKind identifies the level of a tenant boundary.
type ScopeKind string

const (
	ScopeSystem       ScopeKind = "system"
	ScopeOrganization ScopeKind = "organization"
	ScopeWorkspace    ScopeKind = "workspace"
)

// Organization is a top-level tenant boundary.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Workspace is a tenant boundary nested in exactly one organization.
type Workspace struct {
	ID        string
	OrgID     string
	Name      string
	CreatedAt time.Time
}

// ScopeContext identifies the tenant scope a request targets. Exactly one of
// the three forms is valid: system (no IDs), organization (OrgID set), or
// workspace (WorkspaceID and its parent OrgID set).
type ScopeContext struct {
	Kind        ScopeKind
	OrgID       string
	WorkspaceID string
}

// SystemScope returns the system-level scope context.
func SystemScope() ScopeContext {
	return ScopeContext{Kind: ScopeSystem}
}

// OrganizationScope returns a scope context targeting one organization.
func OrganizationScope(orgID string) ScopeContext {
	return ScopeContext{Kind: ScopeOrganization, OrgID: orgID}
}

// WorkspaceScope returns a scope context targeting one workspace. The parent
// organization id is carried so downstream code never re-resolves it.
func WorkspaceScope(workspaceID, orgID string) ScopeContext {
	return ScopeContext{Kind: ScopeWorkspace, WorkspaceID: workspaceID, OrgID: orgID}
}

// TargetID returns the scope instance id the context points at: the workspace
// id for workspace scopes, the organization id for organization scopes, and
// empty for system scope.
func (s ScopeContext) TargetID() string {
	switch s.Kind {
	case ScopeWorkspace:
		return s.WorkspaceID
	case ScopeOrganization:
		return s.OrgID
	default:
		return ""
	}
}

// CreateOrganizationRequest holds parameters for creating an organization.
type CreateOrganizationRequest struct {
	Name string
}

// Validate checks that the request is well-formed.
func (r *CreateOrganizationRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("organization name is required")
	}
	return nil
}

// CreateWorkspaceRequest holds parameters for creating a workspace.
type CreateWorkspaceRequest struct {
	OrgID string
	Name  string
}

// Validate checks that the request is well-formed.
func (r *CreateWorkspaceRequest) Validate() error {
	if r.OrgID == "" {
		return ErrValidation("org_id is required")
	}
	if r.Name == "" {
		return ErrValidation("workspace name is required")
	}
	return nil
}
