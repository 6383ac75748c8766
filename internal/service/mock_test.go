package service

import (
	"context"

	"tenantcore/internal/domain"
)

// === Identity Link Repository Mock ===

type mockIdentityLinkRepo struct {
	findPrincipalFn func(ctx context.Context, issuer, subject string) (string, error)
}

func (m *mockIdentityLinkRepo) FindPrincipal(ctx context.Context, issuer, subject string) (string, error) {
	if m.findPrincipalFn != nil {
		return m.findPrincipalFn(ctx, issuer, subject)
	}
	panic("unexpected call to mockIdentityLinkRepo.FindPrincipal")
}

func (m *mockIdentityLinkRepo) Link(_ context.Context, _ *domain.IdentityLink) (*domain.IdentityLink, error) {
	panic("unexpected call to mockIdentityLinkRepo.Link")
}

func (m *mockIdentityLinkRepo) Unlink(_ context.Context, _, _ string) error {
	panic("unexpected call to mockIdentityLinkRepo.Unlink")
}

func (m *mockIdentityLinkRepo) ListForPrincipal(_ context.Context, _ string) ([]domain.IdentityLink, error) {
	panic("unexpected call to mockIdentityLinkRepo.ListForPrincipal")
}

// === Principal Repository Mock ===

type mockPrincipalRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Principal, error)
}

func (m *mockPrincipalRepo) Create(_ context.Context, _ *domain.Principal) (*domain.Principal, error) {
	panic("unexpected call to mockPrincipalRepo.Create")
}

func (m *mockPrincipalRepo) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	panic("unexpected call to mockPrincipalRepo.GetByID")
}

func (m *mockPrincipalRepo) List(_ context.Context, _ domain.PageRequest) ([]domain.Principal, int64, error) {
	panic("unexpected call to mockPrincipalRepo.List")
}

func (m *mockPrincipalRepo) SetSystemRole(_ context.Context, _ string, _ domain.Role) error {
	panic("unexpected call to mockPrincipalRepo.SetSystemRole")
}

func (m *mockPrincipalRepo) SetActive(_ context.Context, _ string, _ bool) error {
	panic("unexpected call to mockPrincipalRepo.SetActive")
}

// === Membership Repository Mock ===

type mockMembershipRepo struct {
	roleOfFn        func(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string) (domain.Role, error)
	parentScopeOfFn func(ctx context.Context, workspaceID string) (string, error)
}

func (m *mockMembershipRepo) RoleOf(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string) (domain.Role, error) {
	if m.roleOfFn != nil {
		return m.roleOfFn(ctx, principalID, kind, scopeID)
	}
	panic("unexpected call to mockMembershipRepo.RoleOf")
}

func (m *mockMembershipRepo) ParentScopeOf(ctx context.Context, workspaceID string) (string, error) {
	if m.parentScopeOfFn != nil {
		return m.parentScopeOfFn(ctx, workspaceID)
	}
	panic("unexpected call to mockMembershipRepo.ParentScopeOf")
}

func (m *mockMembershipRepo) Add(_ context.Context, _ *domain.Membership) (*domain.Membership, error) {
	panic("unexpected call to mockMembershipRepo.Add")
}

func (m *mockMembershipRepo) SetRole(_ context.Context, _ string, _ domain.ScopeKind, _ string, _ domain.Role) error {
	panic("unexpected call to mockMembershipRepo.SetRole")
}

func (m *mockMembershipRepo) Remove(_ context.Context, _ string, _ domain.ScopeKind, _ string) error {
	panic("unexpected call to mockMembershipRepo.Remove")
}

func (m *mockMembershipRepo) ListForScope(_ context.Context, _ domain.ScopeKind, _ string, _ domain.PageRequest) ([]domain.Membership, int64, error) {
	panic("unexpected call to mockMembershipRepo.ListForScope")
}

func (m *mockMembershipRepo) ListForPrincipal(_ context.Context, _ string) ([]domain.Membership, error) {
	panic("unexpected call to mockMembershipRepo.ListForPrincipal")
}

// === Audit Repository Mock ===

type mockAuditRepo struct {
	insertFn func(ctx context.Context, e *domain.AuditEntry) error
}

func (m *mockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, _ domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	panic("unexpected call to mockAuditRepo.List")
}
