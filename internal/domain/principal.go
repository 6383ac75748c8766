package domain

import "time"

// Principal represents an authenticated actor with a stable internal id.
// Principals are never deleted, only deactivated.
type Principal struct {
	ID         string
	Name       string
	SystemRole Role // property of the principal itself, not a membership row
	Active     bool
	CreatedAt  time.Time
}

// IdentityLink maps one external identity reference (issuer + subject) to a
// principal. Many links may point at one principal; a given (issuer, subject)
// pair maps to exactly one.
type IdentityLink struct {
	ID          string
	PrincipalID string
	Issuer      string
	Subject     string
	CreatedAt   time.Time
}

// CreatePrincipalRequest holds parameters for creating a new principal.
type CreatePrincipalRequest struct {
	Name       string
	SystemRole Role // defaults to none
}

// Validate checks that the request is well-formed.
func (r *CreatePrincipalRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("principal name is required")
	}
	if r.SystemRole == "" {
		r.SystemRole = RoleNone
	}
	if !ValidRole(string(r.SystemRole)) {
		return ErrValidation("system_role must be one of 'none', 'user', 'admin', 'owner'")
	}
	return nil
}

// LinkIdentityRequest holds parameters for linking an external identity
// reference to an existing principal.
type LinkIdentityRequest struct {
	PrincipalID string
	Issuer      string
	Subject     string
}

// Validate checks that the request is well-formed.
func (r *LinkIdentityRequest) Validate() error {
	if r.PrincipalID == "" {
		return ErrValidation("principal_id is required")
	}
	if r.Issuer == "" {
		return ErrValidation("issuer is required")
	}
	if r.Subject == "" {
		return ErrValidation("subject is required")
	}
	return nil
}
