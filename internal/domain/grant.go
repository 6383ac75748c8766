package domain

import "time"

// PermissionLevel is the capability a share grant confers.
type PermissionLevel string

const (
	PermissionView PermissionLevel = "view"
	PermissionEdit PermissionLevel = "edit"
)

// GranteeType distinguishes direct principal grants from collaboration-group
// grants ("all members of scope X").
type GranteeType string

const (
	GranteePrincipal    GranteeType = "principal"
	GranteeScopeMembers GranteeType = "scope_members"
)

// ShareGrant is an explicit, owner-issued permission record attached to a
// resource. Grants are never implicitly created.
type ShareGrant struct {
	ID         string
	ResourceID string
	Grantee    GranteeType
	// GranteeID is a principal id for direct grants, or a scope id for
	// scope_members grants (GranteeScopeKind then names the scope level).
	GranteeID        string
	GranteeScopeKind ScopeKind
	Level            PermissionLevel
	CreatedBy        string
	CreatedAt        time.Time
	RevokedAt        *time.Time
}

// Active reports whether the grant has not been revoked.
func (g *ShareGrant) Active() bool {
	return g.RevokedAt == nil
}

// AllowsEdit reports whether the grant carries edit-level permission.
func (g *ShareGrant) AllowsEdit() bool {
	return g.Level == PermissionEdit
}

// CreateShareGrantRequest holds parameters for sharing a resource.
type CreateShareGrantRequest struct {
	ResourceID       string
	Grantee          GranteeType
	GranteeID        string
	GranteeScopeKind ScopeKind
	Level            PermissionLevel
}

// Validate checks that the request is well-formed.
func (r *CreateShareGrantRequest) Validate() error {
	if r.ResourceID == "" {
		return ErrValidation("resource_id is required")
	}
	if r.Grantee != GranteePrincipal && r.Grantee != GranteeScopeMembers {
		return ErrValidation("grantee must be 'principal' or 'scope_members'")
	}
	if r.GranteeID == "" {
		return ErrValidation("grantee_id is required")
	}
	if r.Grantee == GranteeScopeMembers &&
		r.GranteeScopeKind != ScopeOrganization && r.GranteeScopeKind != ScopeWorkspace {
		return ErrValidation("grantee_scope_kind must be 'organization' or 'workspace'")
	}
	if r.Level != PermissionView && r.Level != PermissionEdit {
		return ErrValidation("level must be 'view' or 'edit'")
	}
	return nil
}
