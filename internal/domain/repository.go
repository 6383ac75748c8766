package domain

import "context"

// IdentityLinkRepository maps external identity references to principals.
// FindPrincipal is the backing lookup for the identity resolver; it returns
// NotFoundError when no mapping exists (the resolver turns that into an
// authentication failure — mappings are never auto-provisioned here).
type IdentityLinkRepository interface {
	FindPrincipal(ctx context.Context, issuer, subject string) (string, error)
	Link(ctx context.Context, l *IdentityLink) (*IdentityLink, error)
	Unlink(ctx context.Context, issuer, subject string) error
	ListForPrincipal(ctx context.Context, principalID string) ([]IdentityLink, error)
}

// PrincipalRepository provides CRUD operations for principals.
type PrincipalRepository interface {
	Create(ctx context.Context, p *Principal) (*Principal, error)
	GetByID(ctx context.Context, id string) (*Principal, error)
	List(ctx context.Context, page PageRequest) ([]Principal, int64, error)
	SetSystemRole(ctx context.Context, id string, role Role) error
	SetActive(ctx context.Context, id string, active bool) error
}

// MembershipRepository is the single source of role truth for both the admin
// gate and the resource evaluator. RoleOf returns RoleNone (not an error)
// when no membership row exists.
type MembershipRepository interface {
	RoleOf(ctx context.Context, principalID string, kind ScopeKind, scopeID string) (Role, error)
	ParentScopeOf(ctx context.Context, workspaceID string) (string, error)
	Add(ctx context.Context, m *Membership) (*Membership, error)
	SetRole(ctx context.Context, principalID string, kind ScopeKind, scopeID string, role Role) error
	Remove(ctx context.Context, principalID string, kind ScopeKind, scopeID string) error
	ListForScope(ctx context.Context, kind ScopeKind, scopeID string, page PageRequest) ([]Membership, int64, error)
	ListForPrincipal(ctx context.Context, principalID string) ([]Membership, error)
}

// OrganizationRepository provides lifecycle operations for organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, o *Organization) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, page PageRequest) ([]Organization, int64, error)
	Delete(ctx context.Context, id string) error
}

// WorkspaceRepository provides lifecycle operations for workspaces.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *Workspace) (*Workspace, error)
	GetByID(ctx context.Context, id string) (*Workspace, error)
	ListForOrg(ctx context.Context, orgID string, page PageRequest) ([]Workspace, int64, error)
	Delete(ctx context.Context, id string) error
}

// ResourceRepository provides operations for shareable resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *Resource) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	ListForScope(ctx context.Context, kind ScopeKind, scopeID string, page PageRequest) ([]Resource, int64, error)
	Delete(ctx context.Context, id string) error
}

// ShareGrantRepository provides operations for explicit share grants.
// GrantsFor returns only active (unrevoked) grants.
type ShareGrantRepository interface {
	Create(ctx context.Context, g *ShareGrant) (*ShareGrant, error)
	Revoke(ctx context.Context, resourceID, id string) error
	GrantsFor(ctx context.Context, resourceID string) ([]ShareGrant, error)
}

// ModuleRegistryRepository provides the three-layer module registry.
// OrgLayer and WSLayer return (nil, nil) when no override row exists.
type ModuleRegistryRepository interface {
	SystemLayer(ctx context.Context, moduleID string) (*ModuleSystemLayer, error)
	OrgLayer(ctx context.Context, moduleID, orgID string) (*ModuleOverrideLayer, error)
	WSLayer(ctx context.Context, moduleID, wsID string) (*ModuleOverrideLayer, error)
	UpsertSystemLayer(ctx context.Context, l *ModuleSystemLayer) error
	UpsertOverrideLayer(ctx context.Context, l *ModuleOverrideLayer) error
	DeleteOverrideLayer(ctx context.Context, moduleID string, kind ScopeKind, scopeID string) error
	ListModules(ctx context.Context, page PageRequest) ([]ModuleSystemLayer, int64, error)
}

// SessionScopeRepository records each principal's explicitly selected
// operating organization. ActiveOrgOf returns "" when nothing is selected.
type SessionScopeRepository interface {
	ActiveOrgOf(ctx context.Context, principalID string) (string, error)
	SetActiveOrg(ctx context.Context, principalID, orgID string) error
	ClearActiveOrg(ctx context.Context, principalID string) error
}

// AuditRepository provides operations for audit log entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
