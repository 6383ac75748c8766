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

func setupScopeRepos(t *testing.T) (*OrganizationRepo, *WorkspaceRepo) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewOrganizationRepo(writeDB), NewWorkspaceRepo(writeDB)
}

func TestOrganizationRepo_CRUD(t *testing.T) {
	orgs, _ := setupScopeRepos(t)
	ctx := context.Background()

	org, err := orgs.Create(ctx, &domain.Organization{Name: "acme"})
	require.NoError(t, err)
	assert.NotEmpty(t, org.ID)

	found, err := orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", found.Name)

	list, total, err := orgs.List(ctx, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, orgs.Delete(ctx, org.ID))
	_, err = orgs.GetByID(ctx, org.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestOrganizationRepo_UniqueName(t *testing.T) {
	orgs, _ := setupScopeRepos(t)
	ctx := context.Background()

	_, err := orgs.Create(ctx, &domain.Organization{Name: "acme"})
	require.NoError(t, err)
	_, err = orgs.Create(ctx, &domain.Organization{Name: "acme"})
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestWorkspaceRepo_CRUD(t *testing.T) {
	orgs, workspaces := setupScopeRepos(t)
	ctx := context.Background()

	org, err := orgs.Create(ctx, &domain.Organization{Name: "acme"})
	require.NoError(t, err)

	ws, err := workspaces.Create(ctx, &domain.Workspace{OrgID: org.ID, Name: "data"})
	require.NoError(t, err)
	assert.Equal(t, org.ID, ws.OrgID)

	found, err := workspaces.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "data", found.Name)

	list, total, err := workspaces.ListForOrg(ctx, org.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, workspaces.Delete(ctx, ws.ID))
	_, err = workspaces.GetByID(ctx, ws.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// Workspace names are unique per organization, not globally.
func TestWorkspaceRepo_NameUniquePerOrg(t *testing.T) {
	orgs, workspaces := setupScopeRepos(t)
	ctx := context.Background()

	a, err := orgs.Create(ctx, &domain.Organization{Name: "acme"})
	require.NoError(t, err)
	b, err := orgs.Create(ctx, &domain.Organization{Name: "globex"})
	require.NoError(t, err)

	_, err = workspaces.Create(ctx, &domain.Workspace{OrgID: a.ID, Name: "data"})
	require.NoError(t, err)
	_, err = workspaces.Create(ctx, &domain.Workspace{OrgID: b.ID, Name: "data"})
	require.NoError(t, err)

	_, err = workspaces.Create(ctx, &domain.Workspace{OrgID: a.ID, Name: "data"})
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestOrganizationRepo_DeleteCascadesWorkspaces(t *testing.T) {
	orgs, workspaces := setupScopeRepos(t)
	ctx := context.Background()

	org, err := orgs.Create(ctx, &domain.Organization{Name: "acme"})
	require.NoError(t, err)
	ws, err := workspaces.Create(ctx, &domain.Workspace{OrgID: org.ID, Name: "data"})
	require.NoError(t, err)

	require.NoError(t, orgs.Delete(ctx, org.ID))

	_, err = workspaces.GetByID(ctx, ws.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestWorkspaceRepo_CreateUnknownOrgFails(t *testing.T) {
	_, workspaces := setupScopeRepos(t)

	_, err := workspaces.Create(context.Background(), &domain.Workspace{OrgID: "nonexistent", Name: "data"})
	require.Error(t, err)
}
