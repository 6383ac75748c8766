package domain

// DenyReason is an internal reason code attached to a Deny decision. It is
// used for audit logging only and must never be exposed verbatim to callers:
// leaking "no membership" vs "insufficient role" would reveal whether a scope
// membership exists to a non-member.
type DenyReason string

const (
	DenyNoMembership     DenyReason = "no_membership"
	DenyInsufficientRole DenyReason = "insufficient_role"
	DenyDeactivated      DenyReason = "principal_deactivated"
)

// Decision is the outcome of an administrative authorization check. Denial is
// a normal business outcome, not an error.
type Decision struct {
	Allowed bool
	Reason  DenyReason // empty when allowed
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with an internal reason code.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
