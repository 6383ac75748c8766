package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenantcore/internal/domain"
)

// resolveModuleConfig returns the effective module configuration for the
// scope the route resolved to.
func (h *Handlers) resolveModuleConfig(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	cfg, err := h.config.Resolve(r.Context(), chi.URLParam(r, "moduleID"), scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"module_id":     cfg.ModuleID,
		"enabled":       cfg.Enabled,
		"config":        cfg.Config,
		"feature_flags": cfg.FeatureFlags,
	})
}

func (h *Handlers) upsertModuleSystemLayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Installed    bool            `json:"installed"`
		Enabled      bool            `json:"enabled"`
		Config       map[string]any  `json:"config"`
		FeatureFlags map[string]bool `json:"feature_flags"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	err := h.moduleAdmin.UpsertSystemLayer(r.Context(), &domain.UpsertModuleSystemLayerRequest{
		ModuleID:     chi.URLParam(r, "moduleID"),
		Installed:    body.Installed,
		Enabled:      body.Enabled,
		Config:       body.Config,
		FeatureFlags: body.FeatureFlags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getModuleSystemLayer(w http.ResponseWriter, r *http.Request) {
	layer, err := h.moduleAdmin.SystemLayer(r.Context(), chi.URLParam(r, "moduleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"module_id":     layer.ModuleID,
		"installed":     layer.Installed,
		"enabled":       layer.Enabled,
		"config":        layer.Config,
		"feature_flags": layer.FeatureFlags,
		"updated_at":    layer.UpdatedAt,
	})
}

func (h *Handlers) listModules(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	modules, total, err := h.moduleAdmin.ListModules(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(modules))
	for _, m := range modules {
		items = append(items, map[string]any{
			"module_id": m.ModuleID,
			"installed": m.Installed,
			"enabled":   m.Enabled,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"modules":         items,
		"total":           total,
		"next_page_token": domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// upsertModuleOverride writes the override layer for the scope the route
// resolved to. A widening attempt comes back as a 409.
func (h *Handlers) upsertModuleOverride(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	var body struct {
		Enabled              *bool           `json:"enabled"`
		ConfigOverrides      map[string]any  `json:"config_overrides"`
		FeatureFlagOverrides map[string]bool `json:"feature_flag_overrides"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	err := h.moduleAdmin.UpsertOverride(r.Context(), &domain.UpsertModuleOverrideRequest{
		ModuleID:             chi.URLParam(r, "moduleID"),
		ScopeKind:            scope.Kind,
		ScopeID:              scope.TargetID(),
		Enabled:              body.Enabled,
		ConfigOverrides:      body.ConfigOverrides,
		FeatureFlagOverrides: body.FeatureFlagOverrides,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getModuleOverride(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	layer, err := h.moduleAdmin.Override(r.Context(), chi.URLParam(r, "moduleID"), scope.Kind, scope.TargetID())
	if err != nil {
		writeError(w, err)
		return
	}
	if layer == nil {
		writeJSON(w, http.StatusOK, map[string]any{"inherit": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inherit":                false,
		"enabled":                layer.Enabled,
		"config_overrides":       layer.ConfigOverrides,
		"feature_flag_overrides": layer.FeatureFlagOverrides,
		"updated_at":             layer.UpdatedAt,
	})
}

func (h *Handlers) deleteModuleOverride(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	err := h.moduleAdmin.DeleteOverride(r.Context(), chi.URLParam(r, "moduleID"), scope.Kind, scope.TargetID())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
