package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "tenantcore/internal/db"
	"tenantcore/internal/db/repository"
	"tenantcore/internal/domain"
	"tenantcore/internal/service"
)

func newTestCache(t *testing.T) (*RedisConfigCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisConfigCache(client, 30*time.Second), mr
}

func TestRedisConfigCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	cfg := &domain.ResolvedModuleConfig{
		ModuleID: "billing",
		Enabled:  true,
		Config:   map[string]any{"currency": "EUR"},
		FeatureFlags: map[string]bool{
			"invoices": true,
		},
	}
	require.NoError(t, c.Set(ctx, "modcfg:billing:organization:org-1", cfg))

	got, ok, err := c.Get(ctx, "modcfg:billing:organization:org-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cfg, got)
}

// A resolve answered from the cache equals the direct resolve that populated
// it, field for field.
func TestRedisConfigCache_CachedResolveEqualsDirect(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	db, _ := internaldb.OpenTestSQLite(t)
	registry := repository.NewModuleRegistryRepo(db)
	require.NoError(t, registry.UpsertSystemLayer(ctx, &domain.ModuleSystemLayer{
		ModuleID: "billing", Installed: true, Enabled: true,
		Config:       map[string]any{"currency": "EUR"},
		FeatureFlags: map[string]bool{"invoices": true},
	}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewModuleConfigService(registry, c, logger)

	first, err := svc.Resolve(ctx, "billing", domain.SystemScope())
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, "billing", domain.SystemScope())
	require.NoError(t, err)
	require.Equal(t, first, second)

	// The second answer came from the cache.
	cached, ok, err := c.Get(ctx, "modcfg:billing:system")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, cached)
}

func TestRedisConfigCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "modcfg:billing:system")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisConfigCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "modcfg:billing:system", &domain.ResolvedModuleConfig{ModuleID: "billing"}))
	mr.FastForward(time.Minute)

	_, ok, err := c.Get(ctx, "modcfg:billing:system")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisConfigCache_InvalidateModule(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "modcfg:billing:system", &domain.ResolvedModuleConfig{ModuleID: "billing"}))
	require.NoError(t, c.Set(ctx, "modcfg:billing:organization:org-1", &domain.ResolvedModuleConfig{ModuleID: "billing"}))
	require.NoError(t, c.Set(ctx, "modcfg:payroll:system", &domain.ResolvedModuleConfig{ModuleID: "payroll"}))

	require.NoError(t, c.InvalidateModule(ctx, "billing"))

	_, ok, err := c.Get(ctx, "modcfg:billing:system")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = c.Get(ctx, "modcfg:billing:organization:org-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other modules are untouched.
	_, ok, err = c.Get(ctx, "modcfg:payroll:system")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisConfigCache_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set("modcfg:billing:system", "not-json{"))

	_, ok, err := c.Get(context.Background(), "modcfg:billing:system")
	require.NoError(t, err)
	assert.False(t, ok)
}
