package domain

import "time"

// ModuleSystemLayer is the base layer of a module registry entry. Effective
// system enablement requires both Installed and Enabled.
type ModuleSystemLayer struct {
	ModuleID     string
	Installed    bool
	Enabled      bool
	Config       map[string]any
	FeatureFlags map[string]bool
	UpdatedAt    time.Time
}

// ModuleOverrideLayer is an organization- or workspace-level override. A nil
// Enabled means inherit. An override may only narrow enablement relative to
// its parent; it can never widen it (monotonic disable).
type ModuleOverrideLayer struct {
	ModuleID             string
	ScopeKind            ScopeKind // organization or workspace
	ScopeID              string
	Enabled              *bool // nil = inherit
	ConfigOverrides      map[string]any
	FeatureFlagOverrides map[string]bool
	UpdatedAt            time.Time
}

// ResolvedModuleConfig is the effective configuration of a module for one
// tenant scope after folding the system, organization, and workspace layers.
type ResolvedModuleConfig struct {
	ModuleID     string
	Enabled      bool
	Config       map[string]any
	FeatureFlags map[string]bool
}

// UpsertModuleOverrideRequest holds parameters for writing an override layer.
type UpsertModuleOverrideRequest struct {
	ModuleID             string
	ScopeKind            ScopeKind
	ScopeID              string
	Enabled              *bool
	ConfigOverrides      map[string]any
	FeatureFlagOverrides map[string]bool
}

// Validate checks that the request is well-formed.
func (r *UpsertModuleOverrideRequest) Validate() error {
	if r.ModuleID == "" {
		return ErrValidation("module_id is required")
	}
	if r.ScopeKind != ScopeOrganization && r.ScopeKind != ScopeWorkspace {
		return ErrValidation("scope_kind must be 'organization' or 'workspace'")
	}
	if r.ScopeID == "" {
		return ErrValidation("scope_id is required")
	}
	return nil
}

// UpsertModuleSystemLayerRequest holds parameters for writing the system layer.
type UpsertModuleSystemLayerRequest struct {
	ModuleID     string
	Installed    bool
	Enabled      bool
	Config       map[string]any
	FeatureFlags map[string]bool
}

// Validate checks that the request is well-formed.
func (r *UpsertModuleSystemLayerRequest) Validate() error {
	if r.ModuleID == "" {
		return ErrValidation("module_id is required")
	}
	return nil
}
