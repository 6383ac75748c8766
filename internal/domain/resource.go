package domain

import "time"

// Resource is a principal-owned, shareable entity (a session, a document).
// Access is conferred only by ownership or an explicit share grant — never by
// administrative role at any level.
type Resource struct {
	ID        string
	OwnerID   string
	ScopeKind ScopeKind // owning scope: organization or workspace
	ScopeID   string
	Kind      string // e.g. "session", "document"
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateResourceRequest holds parameters for creating a resource.
type CreateResourceRequest struct {
	OwnerID   string
	ScopeKind ScopeKind
	ScopeID   string
	Kind      string
	Name      string
}

// Validate checks that the request is well-formed.
func (r *CreateResourceRequest) Validate() error {
	if r.OwnerID == "" {
		return ErrValidation("owner_id is required")
	}
	if r.ScopeKind != ScopeOrganization && r.ScopeKind != ScopeWorkspace {
		return ErrValidation("scope_kind must be 'organization' or 'workspace'")
	}
	if r.ScopeID == "" {
		return ErrValidation("scope_id is required")
	}
	if r.Kind == "" {
		return ErrValidation("resource kind is required")
	}
	if r.Name == "" {
		return ErrValidation("resource name is required")
	}
	return nil
}
