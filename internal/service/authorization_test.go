package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenantcore/internal/domain"
)

func TestAuthorizeAdmin_OrgAdminAllowed(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "admin", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, p.ID, domain.ScopeOrganization, org.ID, domain.RoleAdmin)

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

func TestAuthorizeAdmin_OwnerSatisfiesAdmin(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "owner", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, p.ID, domain.ScopeOrganization, org.ID, domain.RoleOwner)

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestAuthorizeAdmin_AdminDoesNotSatisfyOwner(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "admin", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, p.ID, domain.ScopeOrganization, org.ID, domain.RoleAdmin)

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleOwner)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyInsufficientRole, d.Reason)
}

// An org admin holds nothing inside the org's workspaces: membership is per
// scope instance and never flows downward.
func TestAuthorizeAdmin_NoInheritanceIntoWorkspace(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "orgadmin", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	ws := f.workspace(t, ctx, org.ID, "data")
	f.member(t, ctx, p.ID, domain.ScopeOrganization, org.ID, domain.RoleOwner)

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.WorkspaceScope(ws.ID, org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyNoMembership, d.Reason)
}

// A workspace admin holds nothing at the organization level either.
func TestAuthorizeAdmin_NoInheritanceUpToOrg(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "wsadmin", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	ws := f.workspace(t, ctx, org.ID, "data")
	f.member(t, ctx, p.ID, domain.ScopeWorkspace, ws.ID, domain.RoleAdmin)

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyNoMembership, d.Reason)
}

// System-level role is a property of the principal and confers nothing inside
// any organization or workspace.
func TestAuthorizeAdmin_SystemOwnerDeniedInOrg(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "sysowner", domain.RoleOwner)
	org := f.org(t, ctx, "acme")

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyNoMembership, d.Reason)

	// The same principal is allowed at system scope.
	d, err = f.authz.AuthorizeAdmin(ctx, p.ID, domain.SystemScope(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestAuthorizeAdmin_SiblingWorkspaceDenied(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "wsadmin", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	wsA := f.workspace(t, ctx, org.ID, "alpha")
	wsB := f.workspace(t, ctx, org.ID, "beta")
	f.member(t, ctx, p.ID, domain.ScopeWorkspace, wsA.ID, domain.RoleAdmin)

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.WorkspaceScope(wsB.ID, org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyNoMembership, d.Reason)
}

func TestAuthorizeAdmin_UserRoleIsInsufficient(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "plain", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, p.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyInsufficientRole, d.Reason)
}

func TestAuthorizeAdmin_DeactivatedPrincipalDenied(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "gone", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, p.ID, domain.ScopeOrganization, org.ID, domain.RoleOwner)
	require.NoError(t, f.principals.SetActive(ctx, p.ID, false))

	d, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyDeactivated, d.Reason)
}

func TestAuthorizeAdmin_DecisionsAreAudited(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "admin", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, p.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)

	_, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.OrganizationScope(org.ID), domain.RoleAdmin)
	require.NoError(t, err)

	action := "ADMIN_CHECK"
	entries, total, err := f.audit.List(ctx, domain.AuditFilter{PrincipalID: &p.ID, Action: &action})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, domain.AuditDenied, entries[0].Status)
	require.NotNil(t, entries[0].Reason)
	assert.Equal(t, string(domain.DenyInsufficientRole), *entries[0].Reason)
}

// A store failure must surface as an error, never as a denial.
func TestAuthorizeAdmin_StoreFailureIsNotADeny(t *testing.T) {
	boom := errors.New("disk on fire")
	principals := &mockPrincipalRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Principal, error) {
			return &domain.Principal{ID: id, Active: true}, nil
		},
	}
	memberships := &mockMembershipRepo{
		roleOfFn: func(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string) (domain.Role, error) {
			return domain.RoleNone, boom
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAuthorizationService(principals, memberships, &mockAuditRepo{}, logger)

	_, err := svc.AuthorizeAdmin(context.Background(), "p1", domain.OrganizationScope("o1"), domain.RoleAdmin)
	require.Error(t, err)
	var unavailable *domain.StoreUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestAuthorizeAdmin_RequiredRoleValidated(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "x", domain.RoleNone)
	_, err := f.authz.AuthorizeAdmin(ctx, p.ID, domain.SystemScope(), domain.RoleUser)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}
