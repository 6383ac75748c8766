package service

import (
	"context"
	"log/slog"

	"tenantcore/internal/domain"
)

// ModuleAdminService manages the module registry write path. Override writes
// are validated here: an override may narrow enablement relative to its
// parent chain but a widening attempt is rejected at write time rather than
// silently ignored at read time.
type ModuleAdminService struct {
	registry   domain.ModuleRegistryRepository
	workspaces domain.WorkspaceRepository
	orgs       domain.OrganizationRepository
	cache      ConfigCache // nil disables invalidation
	logger     *slog.Logger
}

// NewModuleAdminService creates a new ModuleAdminService. cache may be nil.
func NewModuleAdminService(
	registry domain.ModuleRegistryRepository,
	workspaces domain.WorkspaceRepository,
	orgs domain.OrganizationRepository,
	cache ConfigCache,
	logger *slog.Logger,
) *ModuleAdminService {
	return &ModuleAdminService{
		registry:   registry,
		workspaces: workspaces,
		orgs:       orgs,
		cache:      cache,
		logger:     logger,
	}
}

// UpsertSystemLayer writes a module's base layer.
func (s *ModuleAdminService) UpsertSystemLayer(ctx context.Context, req *domain.UpsertModuleSystemLayerRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	err := s.registry.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID:     req.ModuleID,
		Installed:    req.Installed,
		Enabled:      req.Enabled,
		Config:       req.Config,
		FeatureFlags: req.FeatureFlags,
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, req.ModuleID)
	return nil
}

// UpsertOverride writes an organization or workspace override layer after
// checking the monotonic-disable rule: Enabled=true is only accepted when the
// parent chain already resolves to enabled, because an override can never
// widen enablement.
func (s *ModuleAdminService) UpsertOverride(ctx context.Context, req *domain.UpsertModuleOverrideRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.scopeExists(ctx, req.ScopeKind, req.ScopeID); err != nil {
		return err
	}
	if req.Enabled != nil && *req.Enabled {
		parentEnabled, err := s.parentEnabled(ctx, req.ModuleID, req.ScopeKind, req.ScopeID)
		if err != nil {
			return err
		}
		if !parentEnabled {
			return domain.ErrConfigConflict("module %s is disabled above %s %s; an override cannot re-enable it",
				req.ModuleID, req.ScopeKind, req.ScopeID)
		}
	}
	err := s.registry.UpsertOverrideLayer(ctx, &domain.ModuleOverrideLayer{
		ModuleID:             req.ModuleID,
		ScopeKind:            req.ScopeKind,
		ScopeID:              req.ScopeID,
		Enabled:              req.Enabled,
		ConfigOverrides:      req.ConfigOverrides,
		FeatureFlagOverrides: req.FeatureFlagOverrides,
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, req.ModuleID)
	return nil
}

// DeleteOverride removes an override layer; the scope falls back to inherit.
func (s *ModuleAdminService) DeleteOverride(ctx context.Context, moduleID string, kind domain.ScopeKind, scopeID string) error {
	if err := s.registry.DeleteOverrideLayer(ctx, moduleID, kind, scopeID); err != nil {
		return err
	}
	s.invalidate(ctx, moduleID)
	return nil
}

// SystemLayer fetches a module's base layer.
func (s *ModuleAdminService) SystemLayer(ctx context.Context, moduleID string) (*domain.ModuleSystemLayer, error) {
	return s.registry.SystemLayer(ctx, moduleID)
}

// Override fetches one override layer, or nil when the scope inherits.
func (s *ModuleAdminService) Override(ctx context.Context, moduleID string, kind domain.ScopeKind, scopeID string) (*domain.ModuleOverrideLayer, error) {
	switch kind {
	case domain.ScopeOrganization:
		return s.registry.OrgLayer(ctx, moduleID, scopeID)
	case domain.ScopeWorkspace:
		return s.registry.WSLayer(ctx, moduleID, scopeID)
	default:
		return nil, domain.ErrValidation("scope_kind must be 'organization' or 'workspace'")
	}
}

// ListModules returns a paginated list of registered modules.
func (s *ModuleAdminService) ListModules(ctx context.Context, page domain.PageRequest) ([]domain.ModuleSystemLayer, int64, error) {
	return s.registry.ListModules(ctx, page)
}

// parentEnabled resolves the enablement of the layer chain above the override
// being written: system for an organization override, system plus the parent
// organization's override for a workspace override.
func (s *ModuleAdminService) parentEnabled(ctx context.Context, moduleID string, kind domain.ScopeKind, scopeID string) (bool, error) {
	system, err := s.registry.SystemLayer(ctx, moduleID)
	if err != nil {
		return false, err
	}
	enabled := system.Installed && system.Enabled

	if kind == domain.ScopeWorkspace {
		ws, err := s.workspaces.GetByID(ctx, scopeID)
		if err != nil {
			return false, err
		}
		orgLayer, err := s.registry.OrgLayer(ctx, moduleID, ws.OrgID)
		if err != nil {
			return false, err
		}
		if orgLayer != nil && orgLayer.Enabled != nil {
			enabled = enabled && *orgLayer.Enabled
		}
	}
	return enabled, nil
}

func (s *ModuleAdminService) scopeExists(ctx context.Context, kind domain.ScopeKind, scopeID string) error {
	switch kind {
	case domain.ScopeOrganization:
		_, err := s.orgs.GetByID(ctx, scopeID)
		return err
	case domain.ScopeWorkspace:
		_, err := s.workspaces.GetByID(ctx, scopeID)
		return err
	default:
		return domain.ErrValidation("scope_kind must be 'organization' or 'workspace'")
	}
}

func (s *ModuleAdminService) invalidate(ctx context.Context, moduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateModule(ctx, moduleID); err != nil {
		s.logger.Warn("config cache invalidation failed", "module_id", moduleID, "error", err)
	}
}
