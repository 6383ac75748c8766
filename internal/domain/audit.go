package domain

import "time"

// AuditEntry represents a single audit log record. Deny reasons are recorded
// here and nowhere user-visible.
type AuditEntry struct {
	ID          string
	PrincipalID string
	Action      string // e.g. "ADMIN_CHECK", "RESOURCE_ACCESS", "GRANT", "OVERRIDE_WRITE"
	ScopeKind   *ScopeKind
	ScopeID     *string
	ResourceID  *string
	Status      string // "ALLOWED", "DENIED", "ERROR"
	Reason      *string
	CreatedAt   time.Time
}

// Audit status constants.
const (
	AuditAllowed = "ALLOWED"
	AuditDenied  = "DENIED"
	AuditError   = "ERROR"
)

// AuditFilter holds filter parameters for querying audit logs.
type AuditFilter struct {
	PrincipalID *string
	Action      *string
	Status      *string
	Since       *time.Time
	Page        PageRequest
}
