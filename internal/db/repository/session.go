package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.SessionScopeRepository = (*SessionScopeRepo)(nil)

// SessionScopeRepo implements domain.SessionScopeRepository using SQLite.
// It records each principal's explicitly selected operating organization,
// which is the only accepted source of an organization id for org-scoped
// routes.
type SessionScopeRepo struct {
	db *sql.DB
}

// NewSessionScopeRepo creates a new SessionScopeRepo.
func NewSessionScopeRepo(db *sql.DB) *SessionScopeRepo {
	return &SessionScopeRepo{db: db}
}

// ActiveOrgOf returns the principal's selected organization, or "" when no
// selection exists.
func (r *SessionScopeRepo) ActiveOrgOf(ctx context.Context, principalID string) (string, error) {
	var orgID string
	err := r.db.QueryRowContext(ctx,
		`SELECT org_id FROM session_scopes WHERE principal_id = ?`, principalID).Scan(&orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return orgID, nil
}

// SetActiveOrg records the principal's operating organization selection.
func (r *SessionScopeRepo) SetActiveOrg(ctx context.Context, principalID, orgID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_scopes (principal_id, org_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(principal_id) DO UPDATE SET org_id = excluded.org_id, updated_at = excluded.updated_at`,
		principalID, orgID, time.Now().UTC())
	return mapDBError(err)
}

// ClearActiveOrg removes the principal's selection.
func (r *SessionScopeRepo) ClearActiveOrg(ctx context.Context, principalID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_scopes WHERE principal_id = ?`, principalID)
	return mapDBError(err)
}
