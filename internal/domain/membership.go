package domain

import "time"

// Role is the privilege level a principal holds within one specific scope
// instance. A role never carries across scope instances or scope kinds.
type Role string

const (
	RoleNone  Role = "none"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleNone, RoleUser, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// Satisfies reports whether the role meets a required administrative level.
// Only admin and owner are meaningful requirements; the comparison is local
// to a single scope instance and implies nothing about any other scope.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case RoleAdmin:
		return r == RoleAdmin || r == RoleOwner
	case RoleOwner:
		return r == RoleOwner
	default:
		return false
	}
}

// IsMember reports whether the role represents an actual membership row
// (anything above none).
func (r Role) IsMember() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleOwner
}

// Membership is a (principal, scope, role) triple. One row per principal per
// scope instance; a principal may hold many memberships with different roles.
type Membership struct {
	PrincipalID string
	ScopeKind   ScopeKind // organization or workspace
	ScopeID     string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AddMembershipRequest holds parameters for adding a principal to a scope.
type AddMembershipRequest struct {
	PrincipalID string
	ScopeKind   ScopeKind
	ScopeID     string
	Role        Role
}

// Validate checks that the request is well-formed.
func (r *AddMembershipRequest) Validate() error {
	if r.PrincipalID == "" {
		return ErrValidation("principal_id is required")
	}
	if r.ScopeKind != ScopeOrganization && r.ScopeKind != ScopeWorkspace {
		return ErrValidation("scope_kind must be 'organization' or 'workspace'")
	}
	if r.ScopeID == "" {
		return ErrValidation("scope_id is required")
	}
	if !r.Role.IsMember() {
		return ErrValidation("role must be 'user', 'admin', or 'owner'")
	}
	return nil
}
