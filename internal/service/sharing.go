package service

import (
	"context"
	"log/slog"

	"tenantcore/internal/domain"
)

// SharingService manages resources and their share grants. Only the owner of
// a resource may share it, revoke grants on it, or delete it — no
// administrative role substitutes for ownership here.
type SharingService struct {
	resources   domain.ResourceRepository
	grants      domain.ShareGrantRepository
	principals  domain.PrincipalRepository
	memberships domain.MembershipRepository
	audit       domain.AuditRepository
	logger      *slog.Logger
}

// NewSharingService creates a new SharingService.
func NewSharingService(
	resources domain.ResourceRepository,
	grants domain.ShareGrantRepository,
	principals domain.PrincipalRepository,
	memberships domain.MembershipRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *SharingService {
	return &SharingService{
		resources:   resources,
		grants:      grants,
		principals:  principals,
		memberships: memberships,
		audit:       audit,
		logger:      logger,
	}
}

// CreateResource creates a resource owned by the acting principal inside a
// scope the principal is a member of.
func (s *SharingService) CreateResource(ctx context.Context, req *domain.CreateResourceRequest) (*domain.Resource, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role, err := s.memberships.RoleOf(ctx, req.OwnerID, req.ScopeKind, req.ScopeID)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err, "role lookup for %s in %s %s", req.OwnerID, req.ScopeKind, req.ScopeID)
	}
	if !role.IsMember() {
		return nil, domain.ErrAccessDenied("not a member of the target scope")
	}
	return s.resources.Create(ctx, &domain.Resource{
		OwnerID:   req.OwnerID,
		ScopeKind: req.ScopeKind,
		ScopeID:   req.ScopeID,
		Kind:      req.Kind,
		Name:      req.Name,
	})
}

// GetResource fetches a resource by id.
func (s *SharingService) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

// ListResources returns a paginated list of a scope's resources.
func (s *SharingService) ListResources(ctx context.Context, kind domain.ScopeKind, scopeID string, page domain.PageRequest) ([]domain.Resource, int64, error) {
	return s.resources.ListForScope(ctx, kind, scopeID, page)
}

// DeleteResource removes a resource. Owner only; grants cascade away.
func (s *SharingService) DeleteResource(ctx context.Context, actorID, resourceID string) error {
	if err := s.requireOwner(ctx, actorID, resourceID); err != nil {
		return err
	}
	return s.resources.Delete(ctx, resourceID)
}

// Share issues an explicit grant on a resource. Owner only. Grantees are
// validated: a direct grant needs an existing principal, a scope-members
// grant needs an existing scope.
func (s *SharingService) Share(ctx context.Context, actorID string, req *domain.CreateShareGrantRequest) (*domain.ShareGrant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, actorID, req.ResourceID); err != nil {
		return nil, err
	}
	if req.Grantee == domain.GranteePrincipal {
		if _, err := s.principals.GetByID(ctx, req.GranteeID); err != nil {
			return nil, err
		}
		if req.GranteeID == actorID {
			return nil, domain.ErrValidation("owner already has full access")
		}
	}
	g, err := s.grants.Create(ctx, &domain.ShareGrant{
		ResourceID:       req.ResourceID,
		Grantee:          req.Grantee,
		GranteeID:        req.GranteeID,
		GranteeScopeKind: req.GranteeScopeKind,
		Level:            req.Level,
		CreatedBy:        actorID,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, req.ResourceID, "GRANT")
	return g, nil
}

// RevokeGrant revokes a grant on a resource. Owner only. The revocation is
// scoped to the resource the owner check ran against, so a grant on someone
// else's resource cannot be revoked by pairing it with one's own resource id.
// The grant row is kept, marked revoked, for audit.
func (s *SharingService) RevokeGrant(ctx context.Context, actorID, resourceID, grantID string) error {
	if err := s.requireOwner(ctx, actorID, resourceID); err != nil {
		return err
	}
	if err := s.grants.Revoke(ctx, resourceID, grantID); err != nil {
		return err
	}
	s.record(ctx, actorID, resourceID, "REVOKE")
	return nil
}

// Grants returns the active grants on a resource. Owner only.
func (s *SharingService) Grants(ctx context.Context, actorID, resourceID string) ([]domain.ShareGrant, error) {
	if err := s.requireOwner(ctx, actorID, resourceID); err != nil {
		return nil, err
	}
	return s.grants.GrantsFor(ctx, resourceID)
}

func (s *SharingService) requireOwner(ctx context.Context, actorID, resourceID string) error {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return err
	}
	if res.OwnerID != actorID {
		return domain.ErrAccessDenied("only the resource owner may manage sharing")
	}
	return nil
}

func (s *SharingService) record(ctx context.Context, actorID, resourceID, action string) {
	entry := &domain.AuditEntry{
		PrincipalID: actorID,
		Action:      action,
		ResourceID:  &resourceID,
		Status:      domain.AuditAllowed,
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", "action", action, "principal_id", actorID, "error", err)
	}
}
