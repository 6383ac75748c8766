package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "tenantcore/internal/db"
	"tenantcore/internal/domain"
)

func setupAuditRepo(t *testing.T) *AuditRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewAuditRepo(writeDB)
}

func insertEntry(t *testing.T, repo *AuditRepo, principalID, action, status string) {
	t.Helper()
	kind := domain.ScopeOrganization
	scopeID := "org-1"
	reason := "NO_MEMBERSHIP"
	err := repo.Insert(context.Background(), &domain.AuditEntry{
		PrincipalID: principalID,
		Action:      action,
		ScopeKind:   &kind,
		ScopeID:     &scopeID,
		Status:      status,
		Reason:      &reason,
	})
	require.NoError(t, err)
}

func TestAuditRepo_InsertAndList(t *testing.T) {
	repo := setupAuditRepo(t)
	ctx := context.Background()

	insertEntry(t, repo, "p1", "ADMIN_CHECK", domain.AuditDenied)

	entries, total, err := repo.List(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "p1", e.PrincipalID)
	assert.Equal(t, "ADMIN_CHECK", e.Action)
	assert.Equal(t, domain.AuditDenied, e.Status)
	require.NotNil(t, e.Reason)
	assert.Equal(t, "NO_MEMBERSHIP", *e.Reason)
	require.NotNil(t, e.ScopeKind)
	assert.Equal(t, domain.ScopeOrganization, *e.ScopeKind)
}

func TestAuditRepo_Filters(t *testing.T) {
	repo := setupAuditRepo(t)
	ctx := context.Background()

	insertEntry(t, repo, "p1", "ADMIN_CHECK", domain.AuditAllowed)
	insertEntry(t, repo, "p1", "RESOURCE_ACCESS", domain.AuditDenied)
	insertEntry(t, repo, "p2", "ADMIN_CHECK", domain.AuditDenied)

	p1 := "p1"
	entries, total, err := repo.List(ctx, domain.AuditFilter{PrincipalID: &p1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, entries, 2)

	denied := domain.AuditDenied
	entries, total, err = repo.List(ctx, domain.AuditFilter{PrincipalID: &p1, Status: &denied})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "RESOURCE_ACCESS", entries[0].Action)

	action := "ADMIN_CHECK"
	_, total, err = repo.List(ctx, domain.AuditFilter{Action: &action})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestAuditRepo_SinceFilter(t *testing.T) {
	repo := setupAuditRepo(t)
	ctx := context.Background()

	insertEntry(t, repo, "p1", "ADMIN_CHECK", domain.AuditAllowed)

	future := time.Now().Add(time.Hour).UTC()
	_, total, err := repo.List(ctx, domain.AuditFilter{Since: &future})
	require.NoError(t, err)
	assert.Zero(t, total)

	past := time.Now().Add(-time.Hour).UTC()
	_, total, err = repo.List(ctx, domain.AuditFilter{Since: &past})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAuditRepo_NewestFirst(t *testing.T) {
	repo := setupAuditRepo(t)
	ctx := context.Background()

	insertEntry(t, repo, "p1", "FIRST", domain.AuditAllowed)
	insertEntry(t, repo, "p1", "SECOND", domain.AuditAllowed)

	entries, _, err := repo.List(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "SECOND", entries[0].Action)
}
