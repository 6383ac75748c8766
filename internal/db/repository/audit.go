package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implements domain.AuditRepository using SQLite.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends an audit log entry.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	id := e.ID
	if id == "" {
		id = domain.NewID()
	}
	var scopeKind sql.NullString
	if e.ScopeKind != nil {
		scopeKind = sql.NullString{String: string(*e.ScopeKind), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, principal_id, action, scope_kind, scope_id, resource_id, status, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.PrincipalID, e.Action, scopeKind, nullString(e.ScopeID), nullString(e.ResourceID),
		e.Status, nullString(e.Reason), time.Now().UTC())
	return mapDBError(err)
}

// List returns audit log entries matching the filter, newest first.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	where := []string{"1=1"}
	var args []any
	if filter.PrincipalID != nil {
		where = append(where, "principal_id = ?")
		args = append(args, *filter.PrincipalID)
	}
	if filter.Action != nil {
		where = append(where, "action = ?")
		args = append(args, *filter.Action)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_id, action, scope_kind, scope_id, resource_id, status, reason, created_at
		 FROM audit_log WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var scopeKind, scopeID, resourceID, reason sql.NullString
		if err := rows.Scan(&e.ID, &e.PrincipalID, &e.Action, &scopeKind, &scopeID, &resourceID, &e.Status, &reason, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if scopeKind.Valid {
			k := domain.ScopeKind(scopeKind.String)
			e.ScopeKind = &k
		}
		e.ScopeID = stringPtr(scopeID)
		e.ResourceID = stringPtr(resourceID)
		e.Reason = stringPtr(reason)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
