package repository

import (
	"context"
	"database/sql"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo implements domain.ResourceRepository using SQLite.
type ResourceRepo struct {
	db *sql.DB
}

// NewResourceRepo creates a new ResourceRepo.
func NewResourceRepo(db *sql.DB) *ResourceRepo {
	return &ResourceRepo{db: db}
}

// Create inserts a new resource.
func (r *ResourceRepo) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	now := time.Now().UTC()
	id := res.ID
	if id == "" {
		id = domain.NewID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (id, owner_id, scope_kind, scope_id, kind, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.OwnerID, string(res.ScopeKind), res.ScopeID, res.Kind, res.Name, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	out := *res
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

// GetByID fetches a resource by id.
func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	var res domain.Resource
	var kind string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, scope_kind, scope_id, kind, name, created_at, updated_at
		 FROM resources WHERE id = ?`, id).
		Scan(&res.ID, &res.OwnerID, &kind, &res.ScopeID, &res.Kind, &res.Name, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	res.ScopeKind = domain.ScopeKind(kind)
	return &res, nil
}

// ListForScope returns a paginated list of a scope's resources.
func (r *ResourceRepo) ListForScope(ctx context.Context, kind domain.ScopeKind, scopeID string, page domain.PageRequest) ([]domain.Resource, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resources WHERE scope_kind = ? AND scope_id = ?`,
		string(kind), scopeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, scope_kind, scope_id, kind, name, created_at, updated_at
		 FROM resources WHERE scope_kind = ? AND scope_id = ?
		 ORDER BY created_at LIMIT ? OFFSET ?`,
		string(kind), scopeID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		var res domain.Resource
		var k string
		if err := rows.Scan(&res.ID, &res.OwnerID, &k, &res.ScopeID, &res.Kind, &res.Name, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, 0, err
		}
		res.ScopeKind = domain.ScopeKind(k)
		resources = append(resources, res)
	}
	return resources, total, rows.Err()
}

// Delete removes a resource. Share grants cascade via foreign key.
func (r *ResourceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("resource %s not found", id)
	}
	return nil
}
