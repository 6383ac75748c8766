package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "tenantcore/internal/db"
	"tenantcore/internal/domain"
)

func setupModuleRegistryRepo(t *testing.T) *ModuleRegistryRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewModuleRegistryRepo(writeDB)
}

func TestModuleRegistryRepo_SystemLayerRoundTrip(t *testing.T) {
	repo := setupModuleRegistryRepo(t)
	ctx := context.Background()

	err := repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID:     "billing",
		Installed:    true,
		Enabled:      true,
		Config:       map[string]any{"currency": "EUR", "retries": float64(3)},
		FeatureFlags: map[string]bool{"invoicing": true},
	})
	require.NoError(t, err)

	l, err := repo.SystemLayer(ctx, "billing")
	require.NoError(t, err)
	assert.True(t, l.Installed)
	assert.True(t, l.Enabled)
	assert.Equal(t, "EUR", l.Config["currency"])
	assert.Equal(t, float64(3), l.Config["retries"])
	assert.True(t, l.FeatureFlags["invoicing"])
}

func TestModuleRegistryRepo_SystemLayer_NotFound(t *testing.T) {
	repo := setupModuleRegistryRepo(t)

	_, err := repo.SystemLayer(context.Background(), "nonexistent")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestModuleRegistryRepo_UpsertOverwritesSystemLayer(t *testing.T) {
	repo := setupModuleRegistryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID: "billing", Installed: true, Enabled: true,
	}))
	require.NoError(t, repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID: "billing", Installed: true, Enabled: false,
	}))

	l, err := repo.SystemLayer(ctx, "billing")
	require.NoError(t, err)
	assert.False(t, l.Enabled)
}

// An absent override layer is (nil, nil): the caller treats it as inherit.
func TestModuleRegistryRepo_AbsentOverrideIsNil(t *testing.T) {
	repo := setupModuleRegistryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID: "billing", Installed: true, Enabled: true,
	}))

	l, err := repo.OrgLayer(ctx, "billing", "org-1")
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestModuleRegistryRepo_OverrideRoundTrip(t *testing.T) {
	repo := setupModuleRegistryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID: "billing", Installed: true, Enabled: true,
	}))

	disabled := false
	require.NoError(t, repo.UpsertOverrideLayer(ctx, &domain.ModuleOverrideLayer{
		ModuleID:             "billing",
		ScopeKind:            domain.ScopeOrganization,
		ScopeID:              "org-1",
		Enabled:              &disabled,
		ConfigOverrides:      map[string]any{"currency": "USD"},
		FeatureFlagOverrides: map[string]bool{"invoicing": false},
	}))

	l, err := repo.OrgLayer(ctx, "billing", "org-1")
	require.NoError(t, err)
	require.NotNil(t, l)
	require.NotNil(t, l.Enabled)
	assert.False(t, *l.Enabled)
	assert.Equal(t, "USD", l.ConfigOverrides["currency"])
	assert.False(t, l.FeatureFlagOverrides["invoicing"])
}

// A nil Enabled pointer survives the round trip: config-only overrides do not
// touch the enablement state.
func TestModuleRegistryRepo_NilEnabledRoundTrip(t *testing.T) {
	repo := setupModuleRegistryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID: "billing", Installed: true, Enabled: true,
	}))
	require.NoError(t, repo.UpsertOverrideLayer(ctx, &domain.ModuleOverrideLayer{
		ModuleID:        "billing",
		ScopeKind:       domain.ScopeWorkspace,
		ScopeID:         "ws-1",
		ConfigOverrides: map[string]any{"currency": "GBP"},
	}))

	l, err := repo.WSLayer(ctx, "billing", "ws-1")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Nil(t, l.Enabled)
	assert.Equal(t, "GBP", l.ConfigOverrides["currency"])
}

func TestModuleRegistryRepo_DeleteOverride(t *testing.T) {
	repo := setupModuleRegistryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID: "billing", Installed: true, Enabled: true,
	}))
	require.NoError(t, repo.UpsertOverrideLayer(ctx, &domain.ModuleOverrideLayer{
		ModuleID: "billing", ScopeKind: domain.ScopeOrganization, ScopeID: "org-1",
	}))

	require.NoError(t, repo.DeleteOverrideLayer(ctx, "billing", domain.ScopeOrganization, "org-1"))

	l, err := repo.OrgLayer(ctx, "billing", "org-1")
	require.NoError(t, err)
	assert.Nil(t, l)

	err = repo.DeleteOverrideLayer(ctx, "billing", domain.ScopeOrganization, "org-1")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestModuleRegistryRepo_ListModules(t *testing.T) {
	repo := setupModuleRegistryRepo(t)
	ctx := context.Background()

	for _, id := range []string{"billing", "analytics", "crm"} {
		require.NoError(t, repo.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
			ModuleID: id, Installed: true,
		}))
	}

	modules, total, err := repo.ListModules(ctx, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, modules, 3)
	// Ordered by module id.
	assert.Equal(t, "analytics", modules[0].ModuleID)
}
