package repository

import (
	"context"
	"database/sql"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.PrincipalRepository = (*PrincipalRepo)(nil)

// PrincipalRepo implements domain.PrincipalRepository using SQLite.
type PrincipalRepo struct {
	db *sql.DB
}

// NewPrincipalRepo creates a new PrincipalRepo.
func NewPrincipalRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db}
}

// Create inserts a new principal.
func (r *PrincipalRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	now := time.Now().UTC()
	id := p.ID
	if id == "" {
		id = domain.NewID()
	}
	role := p.SystemRole
	if role == "" {
		role = domain.RoleNone
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO principals (id, name, system_role, active, created_at) VALUES (?, ?, ?, 1, ?)`,
		id, p.Name, string(role), now)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &domain.Principal{ID: id, Name: p.Name, SystemRole: role, Active: true, CreatedAt: now}, nil
}

// GetByID fetches a principal by id.
func (r *PrincipalRepo) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, system_role, active, created_at FROM principals WHERE id = ?`, id))
}

// List returns a paginated list of principals.
func (r *PrincipalRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM principals`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, system_role, active, created_at FROM principals ORDER BY created_at LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var principals []domain.Principal
	for rows.Next() {
		var p domain.Principal
		var role string
		var active int64
		if err := rows.Scan(&p.ID, &p.Name, &role, &active, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		p.SystemRole = domain.Role(role)
		p.Active = active != 0
		principals = append(principals, p)
	}
	return principals, total, rows.Err()
}

// SetSystemRole updates the principal's system-level role.
func (r *PrincipalRepo) SetSystemRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE principals SET system_role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("principal %s not found", id)
	}
	return nil
}

// SetActive activates or deactivates a principal. Principals are never
// deleted.
func (r *PrincipalRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE principals SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("principal %s not found", id)
	}
	return nil
}

func (r *PrincipalRepo) scanOne(row *sql.Row) (*domain.Principal, error) {
	var p domain.Principal
	var role string
	var active int64
	if err := row.Scan(&p.ID, &p.Name, &role, &active, &p.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	p.SystemRole = domain.Role(role)
	p.Active = active != 0
	return &p, nil
}
