package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.ModuleRegistryRepository = (*ModuleRegistryRepo)(nil)

// ModuleRegistryRepo implements domain.ModuleRegistryRepository using SQLite.
// Config and feature-flag maps are stored as JSON text columns.
type ModuleRegistryRepo struct {
	db *sql.DB
}

// NewModuleRegistryRepo creates a new ModuleRegistryRepo.
func NewModuleRegistryRepo(db *sql.DB) *ModuleRegistryRepo {
	return &ModuleRegistryRepo{db: db}
}

// SystemLayer fetches the base layer of a module registry entry.
func (r *ModuleRegistryRepo) SystemLayer(ctx context.Context, moduleID string) (*domain.ModuleSystemLayer, error) {
	var l domain.ModuleSystemLayer
	var installed, enabled int64
	var config, flags string
	err := r.db.QueryRowContext(ctx,
		`SELECT module_id, installed, enabled, config, feature_flags, updated_at
		 FROM module_system_layers WHERE module_id = ?`, moduleID).
		Scan(&l.ModuleID, &installed, &enabled, &config, &flags, &l.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	l.Installed = installed != 0
	l.Enabled = enabled != 0
	if l.Config, err = unmarshalMap[any](config); err != nil {
		return nil, err
	}
	if l.FeatureFlags, err = unmarshalMap[bool](flags); err != nil {
		return nil, err
	}
	return &l, nil
}

// OrgLayer fetches the organization override layer, or nil when absent.
func (r *ModuleRegistryRepo) OrgLayer(ctx context.Context, moduleID, orgID string) (*domain.ModuleOverrideLayer, error) {
	return r.overrideLayer(ctx, moduleID, domain.ScopeOrganization, orgID)
}

// WSLayer fetches the workspace override layer, or nil when absent.
func (r *ModuleRegistryRepo) WSLayer(ctx context.Context, moduleID, wsID string) (*domain.ModuleOverrideLayer, error) {
	return r.overrideLayer(ctx, moduleID, domain.ScopeWorkspace, wsID)
}

func (r *ModuleRegistryRepo) overrideLayer(ctx context.Context, moduleID string, kind domain.ScopeKind, scopeID string) (*domain.ModuleOverrideLayer, error) {
	var l domain.ModuleOverrideLayer
	var k, config, flags string
	var enabled sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT module_id, scope_kind, scope_id, enabled, config_overrides, feature_flag_overrides, updated_at
		 FROM module_override_layers WHERE module_id = ? AND scope_kind = ? AND scope_id = ?`,
		moduleID, string(kind), scopeID).
		Scan(&l.ModuleID, &k, &l.ScopeID, &enabled, &config, &flags, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // absent override layer means inherit
	}
	if err != nil {
		return nil, err
	}
	l.ScopeKind = domain.ScopeKind(k)
	if enabled.Valid {
		v := enabled.Int64 != 0
		l.Enabled = &v
	}
	if l.ConfigOverrides, err = unmarshalMap[any](config); err != nil {
		return nil, err
	}
	if l.FeatureFlagOverrides, err = unmarshalMap[bool](flags); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpsertSystemLayer writes the base layer of a module registry entry.
func (r *ModuleRegistryRepo) UpsertSystemLayer(ctx context.Context, l *domain.ModuleSystemLayer) error {
	config, err := marshalMap(l.Config)
	if err != nil {
		return err
	}
	flags, err := marshalMap(l.FeatureFlags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO module_system_layers (module_id, installed, enabled, config, feature_flags, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(module_id) DO UPDATE SET
		   installed = excluded.installed,
		   enabled = excluded.enabled,
		   config = excluded.config,
		   feature_flags = excluded.feature_flags,
		   updated_at = excluded.updated_at`,
		l.ModuleID, boolToInt(l.Installed), boolToInt(l.Enabled), config, flags, time.Now().UTC())
	return mapDBError(err)
}

// UpsertOverrideLayer writes an organization or workspace override layer.
// Monotonic-disable validation happens in the service layer before this call.
func (r *ModuleRegistryRepo) UpsertOverrideLayer(ctx context.Context, l *domain.ModuleOverrideLayer) error {
	config, err := marshalMap(l.ConfigOverrides)
	if err != nil {
		return err
	}
	flags, err := marshalMap(l.FeatureFlagOverrides)
	if err != nil {
		return err
	}
	var enabled sql.NullInt64
	if l.Enabled != nil {
		enabled = sql.NullInt64{Int64: boolToInt(*l.Enabled), Valid: true}
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO module_override_layers (module_id, scope_kind, scope_id, enabled, config_overrides, feature_flag_overrides, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(module_id, scope_kind, scope_id) DO UPDATE SET
		   enabled = excluded.enabled,
		   config_overrides = excluded.config_overrides,
		   feature_flag_overrides = excluded.feature_flag_overrides,
		   updated_at = excluded.updated_at`,
		l.ModuleID, string(l.ScopeKind), l.ScopeID, enabled, config, flags, time.Now().UTC())
	return mapDBError(err)
}

// DeleteOverrideLayer removes an override layer row.
func (r *ModuleRegistryRepo) DeleteOverrideLayer(ctx context.Context, moduleID string, kind domain.ScopeKind, scopeID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM module_override_layers WHERE module_id = ? AND scope_kind = ? AND scope_id = ?`,
		moduleID, string(kind), scopeID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("module override not found")
	}
	return nil
}

// ListModules returns a paginated list of module system layers.
func (r *ModuleRegistryRepo) ListModules(ctx context.Context, page domain.PageRequest) ([]domain.ModuleSystemLayer, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM module_system_layers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT module_id, installed, enabled, config, feature_flags, updated_at
		 FROM module_system_layers ORDER BY module_id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var modules []domain.ModuleSystemLayer
	for rows.Next() {
		var l domain.ModuleSystemLayer
		var installed, enabled int64
		var config, flags string
		if err := rows.Scan(&l.ModuleID, &installed, &enabled, &config, &flags, &l.UpdatedAt); err != nil {
			return nil, 0, err
		}
		l.Installed = installed != 0
		l.Enabled = enabled != 0
		if l.Config, err = unmarshalMap[any](config); err != nil {
			return nil, 0, err
		}
		if l.FeatureFlags, err = unmarshalMap[bool](flags); err != nil {
			return nil, 0, err
		}
		modules = append(modules, l)
	}
	return modules, total, rows.Err()
}
