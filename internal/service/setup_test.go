package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "tenantcore/internal/db"
	"tenantcore/internal/db/repository"
	"tenantcore/internal/domain"
)

// fixture wires every service against a temporary migrated SQLite database.
// Seeding goes through the repositories directly.
type fixture struct {
	principals  *repository.PrincipalRepo
	links       *repository.IdentityLinkRepo
	memberships *repository.MembershipRepo
	orgs        *repository.OrganizationRepo
	workspaces  *repository.WorkspaceRepo
	resources   *repository.ResourceRepo
	grants      *repository.ShareGrantRepo
	registry    *repository.ModuleRegistryRepo
	sessions    *repository.SessionScopeRepo
	auditRepo   *repository.AuditRepo

	identity    *IdentityService
	scope       *ScopeService
	authz       *AuthorizationService
	access      *ResourceAccessService
	config      *ModuleConfigService
	moduleAdmin *ModuleAdminService
	sharing     *SharingService
	session     *SessionService
	audit       *AuditService
}

func newFixture(t *testing.T) (*fixture, context.Context) {
	t.Helper()

	db, _ := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		principals:  repository.NewPrincipalRepo(db),
		links:       repository.NewIdentityLinkRepo(db),
		memberships: repository.NewMembershipRepo(db),
		orgs:        repository.NewOrganizationRepo(db),
		workspaces:  repository.NewWorkspaceRepo(db),
		resources:   repository.NewResourceRepo(db),
		grants:      repository.NewShareGrantRepo(db),
		registry:    repository.NewModuleRegistryRepo(db),
		sessions:    repository.NewSessionScopeRepo(db),
		auditRepo:   repository.NewAuditRepo(db),
	}
	f.identity = NewIdentityService(f.links, f.principals)
	f.scope = NewScopeService(f.memberships, f.orgs, f.sessions)
	f.authz = NewAuthorizationService(f.principals, f.memberships, f.auditRepo, logger)
	f.access = NewResourceAccessService(f.resources, f.grants, f.memberships, f.principals, f.auditRepo, logger)
	f.config = NewModuleConfigService(f.registry, nil, logger)
	f.moduleAdmin = NewModuleAdminService(f.registry, f.workspaces, f.orgs, nil, logger)
	f.sharing = NewSharingService(f.resources, f.grants, f.principals, f.memberships, f.auditRepo, logger)
	f.session = NewSessionService(f.sessions, f.orgs, f.memberships)
	f.audit = NewAuditService(f.auditRepo)

	return f, context.Background()
}

func (f *fixture) principal(t *testing.T, ctx context.Context, name string, systemRole domain.Role) *domain.Principal {
	t.Helper()
	p, err := f.principals.Create(ctx, &domain.Principal{Name: name, SystemRole: systemRole, Active: true})
	require.NoError(t, err)
	return p
}

func (f *fixture) org(t *testing.T, ctx context.Context, name string) *domain.Organization {
	t.Helper()
	o, err := f.orgs.Create(ctx, &domain.Organization{Name: name})
	require.NoError(t, err)
	return o
}

func (f *fixture) workspace(t *testing.T, ctx context.Context, orgID, name string) *domain.Workspace {
	t.Helper()
	w, err := f.workspaces.Create(ctx, &domain.Workspace{OrgID: orgID, Name: name})
	require.NoError(t, err)
	return w
}

func (f *fixture) member(t *testing.T, ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string, role domain.Role) {
	t.Helper()
	_, err := f.memberships.Add(ctx, &domain.Membership{
		PrincipalID: principalID, ScopeKind: kind, ScopeID: scopeID, Role: role,
	})
	require.NoError(t, err)
}

func (f *fixture) resource(t *testing.T, ctx context.Context, ownerID string, kind domain.ScopeKind, scopeID string) *domain.Resource {
	t.Helper()
	r, err := f.resources.Create(ctx, &domain.Resource{
		OwnerID: ownerID, ScopeKind: kind, ScopeID: scopeID, Kind: "document", Name: "doc",
	})
	require.NoError(t, err)
	return r
}
