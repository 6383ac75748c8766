package service

import (
	"context"
	"log/slog"

	"tenantcore/internal/domain"
)

// ResourceAccessService evaluates access to owned, shareable resources.
// Access is conferred only by ownership or an explicit active grant. The
// administrative role hierarchy is never consulted here: an org owner who was
// not granted access to a member's resource does not see it.
type ResourceAccessService struct {
	resources   domain.ResourceRepository
	grants      domain.ShareGrantRepository
	memberships domain.MembershipRepository
	principals  domain.PrincipalRepository
	audit       domain.AuditRepository
	logger      *slog.Logger
}

// NewResourceAccessService creates a new ResourceAccessService.
func NewResourceAccessService(
	resources domain.ResourceRepository,
	grants domain.ShareGrantRepository,
	memberships domain.MembershipRepository,
	principals domain.PrincipalRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *ResourceAccessService {
	return &ResourceAccessService{
		resources:   resources,
		grants:      grants,
		memberships: memberships,
		principals:  principals,
		audit:       audit,
		logger:      logger,
	}
}

// CanAccess decides whether the principal may view the resource.
func (s *ResourceAccessService) CanAccess(ctx context.Context, principalID, resourceID string) (domain.Decision, error) {
	return s.evaluate(ctx, principalID, resourceID, domain.PermissionView)
}

// CanEdit decides whether the principal may modify the resource. Only the
// owner and edit-level grantees qualify.
func (s *ResourceAccessService) CanEdit(ctx context.Context, principalID, resourceID string) (domain.Decision, error) {
	return s.evaluate(ctx, principalID, resourceID, domain.PermissionEdit)
}

// evaluate runs the three-step check: scope membership guard, then ownership,
// then explicit grants. The order matters — a principal outside the resource's
// owning scope is denied before grants are even read.
func (s *ResourceAccessService) evaluate(ctx context.Context, principalID, resourceID string, level domain.PermissionLevel) (domain.Decision, error) {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return domain.Decision{}, err
	}

	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return domain.Decision{}, domain.ErrStoreUnavailable(err, "load principal %s", principalID)
	}
	if !p.Active {
		return s.deny(ctx, principalID, res, domain.DenyDeactivated), nil
	}

	role, err := s.memberships.RoleOf(ctx, principalID, res.ScopeKind, res.ScopeID)
	if err != nil {
		return domain.Decision{}, domain.ErrStoreUnavailable(err, "role lookup for %s in %s %s", principalID, res.ScopeKind, res.ScopeID)
	}
	if !role.IsMember() {
		return s.deny(ctx, principalID, res, domain.DenyNoMembership), nil
	}

	if res.OwnerID == principalID {
		s.record(ctx, principalID, res, domain.AuditAllowed, "")
		return domain.Allow(), nil
	}

	ok, err := s.grantAllows(ctx, principalID, res.ID, level)
	if err != nil {
		return domain.Decision{}, err
	}
	if ok {
		s.record(ctx, principalID, res, domain.AuditAllowed, "")
		return domain.Allow(), nil
	}
	return s.deny(ctx, principalID, res, domain.DenyInsufficientRole), nil
}

// grantAllows reports whether any active grant confers the requested level on
// the principal, either directly or through scope-members collaboration.
func (s *ResourceAccessService) grantAllows(ctx context.Context, principalID, resourceID string, level domain.PermissionLevel) (bool, error) {
	grants, err := s.grants.GrantsFor(ctx, resourceID)
	if err != nil {
		return false, domain.ErrStoreUnavailable(err, "load grants for resource %s", resourceID)
	}
	for _, g := range grants {
		if level == domain.PermissionEdit && !g.AllowsEdit() {
			continue
		}
		switch g.Grantee {
		case domain.GranteePrincipal:
			if g.GranteeID == principalID {
				return true, nil
			}
		case domain.GranteeScopeMembers:
			role, err := s.memberships.RoleOf(ctx, principalID, g.GranteeScopeKind, g.GranteeID)
			if err != nil {
				return false, domain.ErrStoreUnavailable(err, "role lookup for %s in %s %s", principalID, g.GranteeScopeKind, g.GranteeID)
			}
			if role.IsMember() {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *ResourceAccessService) deny(ctx context.Context, principalID string, res *domain.Resource, reason domain.DenyReason) domain.Decision {
	s.record(ctx, principalID, res, domain.AuditDenied, reason)
	return domain.Deny(reason)
}

func (s *ResourceAccessService) record(ctx context.Context, principalID string, res *domain.Resource, status string, reason domain.DenyReason) {
	entry := &domain.AuditEntry{
		PrincipalID: principalID,
		Action:      "RESOURCE_ACCESS",
		ScopeKind:   &res.ScopeKind,
		ScopeID:     &res.ScopeID,
		ResourceID:  &res.ID,
		Status:      status,
	}
	if reason != "" {
		r := string(reason)
		entry.Reason = &r
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", "action", entry.Action, "principal_id", principalID, "error", err)
	}
}
