package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"tenantcore/internal/domain"
)

// ConfigCache caches resolved module configurations. Implementations must
// treat a miss as (nil, false, nil); cache failures degrade to a direct
// resolve, never to an error for the caller.
type ConfigCache interface {
	Get(ctx context.Context, key string) (*domain.ResolvedModuleConfig, bool, error)
	Set(ctx context.Context, key string, cfg *domain.ResolvedModuleConfig) error
	InvalidateModule(ctx context.Context, moduleID string) error
}

// ModuleConfigService resolves the effective configuration of a module for a
// tenant scope by folding up to three layers: system, then organization, then
// workspace. Enablement only narrows down the chain — a child layer can
// disable an enabled module but can never re-enable a disabled one.
type ModuleConfigService struct {
	registry domain.ModuleRegistryRepository
	cache    ConfigCache // nil disables caching
	logger   *slog.Logger
}

// NewModuleConfigService creates a new ModuleConfigService. cache may be nil.
func NewModuleConfigService(registry domain.ModuleRegistryRepository, cache ConfigCache, logger *slog.Logger) *ModuleConfigService {
	return &ModuleConfigService{registry: registry, cache: cache, logger: logger}
}

// Resolve folds the module's layers for the given scope. An unknown module is
// a NotFoundError; a missing override layer simply inherits.
func (s *ModuleConfigService) Resolve(ctx context.Context, moduleID string, scope domain.ScopeContext) (*domain.ResolvedModuleConfig, error) {
	key := cacheKey(moduleID, scope)
	if s.cache != nil {
		if cfg, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("config cache read failed", "key", key, "error", err)
		} else if ok {
			return cfg, nil
		}
	}

	system, org, ws, err := s.fetchLayers(ctx, moduleID, scope)
	if err != nil {
		return nil, err
	}

	resolved := foldLayers(moduleID, system, org, ws)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resolved); err != nil {
			s.logger.Warn("config cache write failed", "key", key, "error", err)
		}
	}
	return resolved, nil
}

// fetchLayers reads the applicable layers concurrently. The system layer is
// always required; org and workspace layers apply only when the scope reaches
// that depth and are nil when no override row exists.
func (s *ModuleConfigService) fetchLayers(ctx context.Context, moduleID string, scope domain.ScopeContext) (*domain.ModuleSystemLayer, *domain.ModuleOverrideLayer, *domain.ModuleOverrideLayer, error) {
	var (
		system *domain.ModuleSystemLayer
		org    *domain.ModuleOverrideLayer
		ws     *domain.ModuleOverrideLayer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		system, err = s.registry.SystemLayer(gctx, moduleID)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				return domain.ErrNotFound("module %s is not registered", moduleID)
			}
			return domain.ErrStoreUnavailable(err, "load system layer of module %s", moduleID)
		}
		return nil
	})
	if scope.OrgID != "" {
		g.Go(func() error {
			var err error
			org, err = s.registry.OrgLayer(gctx, moduleID, scope.OrgID)
			if err != nil {
				return domain.ErrStoreUnavailable(err, "load org layer of module %s", moduleID)
			}
			return nil
		})
	}
	if scope.Kind == domain.ScopeWorkspace {
		g.Go(func() error {
			var err error
			ws, err = s.registry.WSLayer(gctx, moduleID, scope.WorkspaceID)
			if err != nil {
				return domain.ErrStoreUnavailable(err, "load workspace layer of module %s", moduleID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return system, org, ws, nil
}

// foldLayers performs the left fold over the layer chain. Config values and
// feature flags merge key-by-key with later layers winning; enablement is the
// conjunction of every layer that states a value.
func foldLayers(moduleID string, system *domain.ModuleSystemLayer, layers ...*domain.ModuleOverrideLayer) *domain.ResolvedModuleConfig {
	resolved := &domain.ResolvedModuleConfig{
		ModuleID:     moduleID,
		Enabled:      system.Installed && system.Enabled,
		Config:       cloneMap(system.Config),
		FeatureFlags: cloneMap(system.FeatureFlags),
	}
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		if layer.Enabled != nil {
			resolved.Enabled = resolved.Enabled && *layer.Enabled
		}
		for k, v := range layer.ConfigOverrides {
			resolved.Config[k] = v
		}
		for k, v := range layer.FeatureFlagOverrides {
			resolved.FeatureFlags[k] = v
		}
	}
	return resolved
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cacheKey(moduleID string, scope domain.ScopeContext) string {
	if scope.Kind == domain.ScopeSystem {
		return fmt.Sprintf("modcfg:%s:system", moduleID)
	}
	return fmt.Sprintf("modcfg:%s:%s:%s", moduleID, scope.Kind, scope.TargetID())
}
