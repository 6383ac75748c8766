package service

import (
	"context"
	"log/slog"

	"tenantcore/internal/domain"
)

// AuthorizationService is the administrative gate. It answers one question:
// does this principal hold the required role in exactly this scope instance?
// Roles never inherit across scope kinds or instances — a system owner has no
// say inside an organization, and an org admin has no say inside any of that
// org's workspaces.
type AuthorizationService struct {
	principals  domain.PrincipalRepository
	memberships domain.MembershipRepository
	audit       domain.AuditRepository
	logger      *slog.Logger
}

// NewAuthorizationService creates a new AuthorizationService.
func NewAuthorizationService(
	principals domain.PrincipalRepository,
	memberships domain.MembershipRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *AuthorizationService {
	return &AuthorizationService{
		principals:  principals,
		memberships: memberships,
		audit:       audit,
		logger:      logger,
	}
}

// AuthorizeAdmin decides whether principalID holds requiredRole (admin or
// owner) in the given scope. Denial is a business outcome carried in the
// Decision; only store failures return an error, and those are never folded
// into an Allow or Deny. Every decision is audited with its internal reason.
func (s *AuthorizationService) AuthorizeAdmin(ctx context.Context, principalID string, scope domain.ScopeContext, requiredRole domain.Role) (domain.Decision, error) {
	if requiredRole != domain.RoleAdmin && requiredRole != domain.RoleOwner {
		return domain.Decision{}, domain.ErrValidation("required role must be 'admin' or 'owner'")
	}

	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return domain.Decision{}, domain.ErrStoreUnavailable(err, "load principal %s", principalID)
	}
	if !p.Active {
		return s.deny(ctx, principalID, scope, domain.DenyDeactivated), nil
	}

	role, err := s.roleIn(ctx, p, scope)
	if err != nil {
		s.record(ctx, principalID, scope, domain.AuditError, "")
		return domain.Decision{}, err
	}

	switch {
	case role.Satisfies(requiredRole):
		s.record(ctx, principalID, scope, domain.AuditAllowed, "")
		return domain.Allow(), nil
	case role.IsMember():
		return s.deny(ctx, principalID, scope, domain.DenyInsufficientRole), nil
	default:
		return s.deny(ctx, principalID, scope, domain.DenyNoMembership), nil
	}
}

// roleIn returns the principal's role in exactly this scope instance. System
// role is a property of the principal record; organization and workspace
// roles come from the membership store and nowhere else.
func (s *AuthorizationService) roleIn(ctx context.Context, p *domain.Principal, scope domain.ScopeContext) (domain.Role, error) {
	if scope.Kind == domain.ScopeSystem {
		return p.SystemRole, nil
	}
	role, err := s.memberships.RoleOf(ctx, p.ID, scope.Kind, scope.TargetID())
	if err != nil {
		return domain.RoleNone, domain.ErrStoreUnavailable(err, "role lookup for %s in %s %s", p.ID, scope.Kind, scope.TargetID())
	}
	return role, nil
}

func (s *AuthorizationService) deny(ctx context.Context, principalID string, scope domain.ScopeContext, reason domain.DenyReason) domain.Decision {
	s.record(ctx, principalID, scope, domain.AuditDenied, reason)
	return domain.Deny(reason)
}

// record writes an audit entry, best effort. An audit write failure is logged
// and never changes the decision.
func (s *AuthorizationService) record(ctx context.Context, principalID string, scope domain.ScopeContext, status string, reason domain.DenyReason) {
	entry := &domain.AuditEntry{
		PrincipalID: principalID,
		Action:      "ADMIN_CHECK",
		ScopeKind:   &scope.Kind,
		Status:      status,
	}
	if id := scope.TargetID(); id != "" {
		entry.ScopeID = &id
	}
	if reason != "" {
		r := string(reason)
		entry.Reason = &r
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", "action", entry.Action, "principal_id", principalID, "error", err)
	}
}
