package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implements domain.MembershipRepository using SQLite. It is
// the single source of role truth consumed by both the admin gate and the
// resource evaluator.
type MembershipRepo struct {
	db *sql.DB
}

// NewMembershipRepo creates a new MembershipRepo.
func NewMembershipRepo(db *sql.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// RoleOf returns the principal's role within one exact scope instance.
// A missing membership row is RoleNone, not an error.
func (r *MembershipRepo) RoleOf(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string) (domain.Role, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM memberships WHERE principal_id = ? AND scope_kind = ? AND scope_id = ?`,
		principalID, string(kind), scopeID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleNone, nil
	}
	if err != nil {
		return domain.RoleNone, err
	}
	return domain.Role(role), nil
}

// ParentScopeOf returns the owning organization id of a workspace.
func (r *MembershipRepo) ParentScopeOf(ctx context.Context, workspaceID string) (string, error) {
	var orgID string
	err := r.db.QueryRowContext(ctx,
		`SELECT org_id FROM workspaces WHERE id = ?`, workspaceID).Scan(&orgID)
	if err != nil {
		return "", mapDBError(err)
	}
	return orgID, nil
}

// Add inserts a membership row.
func (r *MembershipRepo) Add(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (principal_id, scope_kind, scope_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.PrincipalID, string(m.ScopeKind), m.ScopeID, string(m.Role), now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	out := *m
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

// SetRole updates the role of an existing membership row.
func (r *MembershipRepo) SetRole(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE memberships SET role = ?, updated_at = ? WHERE principal_id = ? AND scope_kind = ? AND scope_id = ?`,
		string(role), time.Now().UTC(), principalID, string(kind), scopeID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("membership not found")
	}
	return nil
}

// Remove deletes a membership row.
func (r *MembershipRepo) Remove(ctx context.Context, principalID string, kind domain.ScopeKind, scopeID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE principal_id = ? AND scope_kind = ? AND scope_id = ?`,
		principalID, string(kind), scopeID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("membership not found")
	}
	return nil
}

// ListForScope returns a paginated list of memberships within one scope.
func (r *MembershipRepo) ListForScope(ctx context.Context, kind domain.ScopeKind, scopeID string, page domain.PageRequest) ([]domain.Membership, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE scope_kind = ? AND scope_id = ?`,
		string(kind), scopeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT principal_id, scope_kind, scope_id, role, created_at, updated_at
		 FROM memberships WHERE scope_kind = ? AND scope_id = ?
		 ORDER BY created_at LIMIT ? OFFSET ?`,
		string(kind), scopeID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	members, err := scanMemberships(rows)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// ListForPrincipal returns all memberships a principal holds across scopes.
func (r *MembershipRepo) ListForPrincipal(ctx context.Context, principalID string) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT principal_id, scope_kind, scope_id, role, created_at, updated_at
		 FROM memberships WHERE principal_id = ? ORDER BY created_at`, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func scanMemberships(rows *sql.Rows) ([]domain.Membership, error) {
	var members []domain.Membership
	for rows.Next() {
		var m domain.Membership
		var kind, role string
		if err := rows.Scan(&m.PrincipalID, &kind, &m.ScopeID, &role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.ScopeKind = domain.ScopeKind(kind)
		m.Role = domain.Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}
