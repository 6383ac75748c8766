package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenantcore/internal/domain"
)

func TestResourceAccess_OwnerAllowed(t *testing.T) {
	f, ctx := newFixture(t)

	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, org.ID)

	d, err := f.access.CanAccess(ctx, owner.ID, res.ID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = f.access.CanEdit(ctx, owner.ID, res.ID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

// The admin role hierarchy is never consulted for resource access: an org
// owner without a grant does not see a member's resource.
func TestResourceAccess_OrgOwnerWithoutGrantDenied(t *testing.T) {
	f, ctx := newFixture(t)

	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	boss := f.principal(t, ctx, "boss", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	f.member(t, ctx, boss.ID, domain.ScopeOrganization, org.ID, domain.RoleOwner)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, org.ID)

	d, err := f.access.CanAccess(ctx, boss.ID, res.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyInsufficientRole, d.Reason)
}

func TestResourceAccess_DirectGrantView(t *testing.T) {
	f, ctx := newFixture(t)

	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	reader := f.principal(t, ctx, "reader", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	f.member(t, ctx, reader.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, org.ID)

	_, err := f.sharing.Share(ctx, owner.ID, &domain.CreateShareGrantRequest{
		ResourceID: res.ID, Grantee: domain.GranteePrincipal, GranteeID: reader.ID, Level: domain.PermissionView,
	})
	require.NoError(t, err)

	d, err := f.access.CanAccess(ctx, reader.ID, res.ID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// A view grant does not carry edit.
	d, err = f.access.CanEdit(ctx, reader.ID, res.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestResourceAccess_EditGrantAllowsBoth(t *testing.T) {
	f, ctx := newFixture(t)

	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	editor := f.principal(t, ctx, "editor", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	f.member(t, ctx, editor.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, org.ID)

	_, err := f.sharing.Share(ctx, owner.ID, &domain.CreateShareGrantRequest{
		ResourceID: res.ID, Grantee: domain.GranteePrincipal, GranteeID: editor.ID, Level: domain.PermissionEdit,
	})
	require.NoError(t, err)

	d, err := f.access.CanEdit(ctx, editor.ID, res.ID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestResourceAccess_ScopeMembersGrant(t *testing.T) {
	f, ctx := newFixture(t)

	org := f.org(t, ctx, "acme")
	ws := f.workspace(t, ctx, org.ID, "data")
	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	peer := f.principal(t, ctx, "peer", domain.RoleNone)
	outsider := f.principal(t, ctx, "outsider", domain.RoleNone)
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	f.member(t, ctx, peer.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	f.member(t, ctx, outsider.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	f.member(t, ctx, owner.ID, domain.ScopeWorkspace, ws.ID, domain.RoleUser)
	f.member(t, ctx, peer.ID, domain.ScopeWorkspace, ws.ID, domain.RoleUser)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, org.ID)

	// Share with everyone in the workspace.
	_, err := f.sharing.Share(ctx, owner.ID, &domain.CreateShareGrantRequest{
		ResourceID: res.ID, Grantee: domain.GranteeScopeMembers,
		GranteeID: ws.ID, GranteeScopeKind: domain.ScopeWorkspace, Level: domain.PermissionView,
	})
	require.NoError(t, err)

	d, err := f.access.CanAccess(ctx, peer.ID, res.ID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// Org member outside the granted workspace gets nothing from it.
	d, err = f.access.CanAccess(ctx, outsider.ID, res.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

// The scope-membership guard runs before grants: a direct grant to someone
// outside the resource's owning scope does not open the door.
func TestResourceAccess_NonMemberDeniedDespiteGrant(t *testing.T) {
	f, ctx := newFixture(t)

	orgA := f.org(t, ctx, "acme")
	orgB := f.org(t, ctx, "globex")
	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	stranger := f.principal(t, ctx, "stranger", domain.RoleNone)
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, orgA.ID, domain.RoleUser)
	f.member(t, ctx, stranger.ID, domain.ScopeOrganization, orgB.ID, domain.RoleUser)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, orgA.ID)

	_, err := f.sharing.Share(ctx, owner.ID, &domain.CreateShareGrantRequest{
		ResourceID: res.ID, Grantee: domain.GranteePrincipal, GranteeID: stranger.ID, Level: domain.PermissionView,
	})
	require.NoError(t, err)

	d, err := f.access.CanAccess(ctx, stranger.ID, res.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyNoMembership, d.Reason)
}

func TestResourceAccess_RevokedGrantDenied(t *testing.T) {
	f, ctx := newFixture(t)

	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	reader := f.principal(t, ctx, "reader", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	f.member(t, ctx, reader.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, org.ID)

	g, err := f.sharing.Share(ctx, owner.ID, &domain.CreateShareGrantRequest{
		ResourceID: res.ID, Grantee: domain.GranteePrincipal, GranteeID: reader.ID, Level: domain.PermissionView,
	})
	require.NoError(t, err)
	require.NoError(t, f.sharing.RevokeGrant(ctx, owner.ID, res.ID, g.ID))

	d, err := f.access.CanAccess(ctx, reader.ID, res.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestResourceAccess_DeactivatedPrincipalDenied(t *testing.T) {
	f, ctx := newFixture(t)

	owner := f.principal(t, ctx, "owner", domain.RoleNone)
	org := f.org(t, ctx, "acme")
	f.member(t, ctx, owner.ID, domain.ScopeOrganization, org.ID, domain.RoleUser)
	res := f.resource(t, ctx, owner.ID, domain.ScopeOrganization, org.ID)
	require.NoError(t, f.principals.SetActive(ctx, owner.ID, false))

	d, err := f.access.CanAccess(ctx, owner.ID, res.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyDeactivated, d.Reason)
}

func TestResourceAccess_UnknownResource(t *testing.T) {
	f, ctx := newFixture(t)

	p := f.principal(t, ctx, "p", domain.RoleNone)
	_, err := f.access.CanAccess(ctx, p.ID, "no-such-resource")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
