package repository

import (
	"context"
	"database/sql"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implements domain.OrganizationRepository using SQLite.
type OrganizationRepo struct {
	db *sql.DB
}

// NewOrganizationRepo creates a new OrganizationRepo.
func NewOrganizationRepo(db *sql.DB) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

// Create inserts a new organization.
func (r *OrganizationRepo) Create(ctx context.Context, o *domain.Organization) (*domain.Organization, error) {
	now := time.Now().UTC()
	id := o.ID
	if id == "" {
		id = domain.NewID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES (?, ?, ?)`, id, o.Name, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &domain.Organization{ID: id, Name: o.Name, CreatedAt: now}, nil
}

// GetByID fetches an organization by id.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	var o domain.Organization
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM organizations WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &o, nil
}

// List returns a paginated list of organizations.
func (r *OrganizationRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Organization, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM organizations ORDER BY created_at LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, o)
	}
	return orgs, total, rows.Err()
}

// Delete removes an organization. Workspaces cascade via foreign key.
func (r *OrganizationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("organization %s not found", id)
	}
	return nil
}

var _ domain.WorkspaceRepository = (*WorkspaceRepo)(nil)

// WorkspaceRepo implements domain.WorkspaceRepository using SQLite.
type WorkspaceRepo struct {
	db *sql.DB
}

// NewWorkspaceRepo creates a new WorkspaceRepo.
func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

// Create inserts a new workspace bound to its parent organization.
func (r *WorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	now := time.Now().UTC()
	id := w.ID
	if id == "" {
		id = domain.NewID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, org_id, name, created_at) VALUES (?, ?, ?, ?)`,
		id, w.OrgID, w.Name, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &domain.Workspace{ID: id, OrgID: w.OrgID, Name: w.Name, CreatedAt: now}, nil
}

// GetByID fetches a workspace by id.
func (r *WorkspaceRepo) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.db.QueryRowContext(ctx,
		`SELECT id, org_id, name, created_at FROM workspaces WHERE id = ?`, id).
		Scan(&w.ID, &w.OrgID, &w.Name, &w.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &w, nil
}

// ListForOrg returns a paginated list of an organization's workspaces.
func (r *WorkspaceRepo) ListForOrg(ctx context.Context, orgID string, page domain.PageRequest) ([]domain.Workspace, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspaces WHERE org_id = ?`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_id, name, created_at FROM workspaces WHERE org_id = ?
		 ORDER BY created_at LIMIT ? OFFSET ?`,
		orgID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		if err := rows.Scan(&w.ID, &w.OrgID, &w.Name, &w.CreatedAt); err != nil {
			return nil, 0, err
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, total, rows.Err()
}

// Delete removes a workspace.
func (r *WorkspaceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("workspace %s not found", id)
	}
	return nil
}
