package repository

import (
	"context"
	"database/sql"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.ShareGrantRepository = (*ShareGrantRepo)(nil)

// ShareGrantRepo implements domain.ShareGrantRepository using SQLite.
type ShareGrantRepo struct {
	db *sql.DB
}

// NewShareGrantRepo creates a new ShareGrantRepo.
func NewShareGrantRepo(db *sql.DB) *ShareGrantRepo {
	return &ShareGrantRepo{db: db}
}

// Create inserts a new share grant.
func (r *ShareGrantRepo) Create(ctx context.Context, g *domain.ShareGrant) (*domain.ShareGrant, error) {
	now := time.Now().UTC()
	id := g.ID
	if id == "" {
		id = domain.NewID()
	}
	var scopeKind sql.NullString
	if g.Grantee == domain.GranteeScopeMembers {
		scopeKind = sql.NullString{String: string(g.GranteeScopeKind), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO share_grants (id, resource_id, grantee_type, grantee_id, grantee_scope_kind, level, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, g.ResourceID, string(g.Grantee), g.GranteeID, scopeKind, string(g.Level), g.CreatedBy, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	out := *g
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

// Revoke marks a grant as revoked. The update is keyed by both grant and
// resource: a grant id paired with a different resource touches nothing.
// Revoked grants are kept for audit.
func (r *ShareGrantRepo) Revoke(ctx context.Context, resourceID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE share_grants SET revoked_at = ? WHERE id = ? AND resource_id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), id, resourceID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("share grant %s not found or already revoked", id)
	}
	return nil
}

// GrantsFor returns the active grants attached to a resource.
func (r *ShareGrantRepo) GrantsFor(ctx context.Context, resourceID string) ([]domain.ShareGrant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, resource_id, grantee_type, grantee_id, grantee_scope_kind, level, created_by, created_at
		 FROM share_grants WHERE resource_id = ? AND revoked_at IS NULL ORDER BY created_at`, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []domain.ShareGrant
	for rows.Next() {
		var g domain.ShareGrant
		var grantee, level string
		var scopeKind sql.NullString
		if err := rows.Scan(&g.ID, &g.ResourceID, &grantee, &g.GranteeID, &scopeKind, &level, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Grantee = domain.GranteeType(grantee)
		g.Level = domain.PermissionLevel(level)
		if scopeKind.Valid {
			g.GranteeScopeKind = domain.ScopeKind(scopeKind.String)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
