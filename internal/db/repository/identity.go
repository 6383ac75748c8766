package repository

import (
	"context"
	"database/sql"
	"time"

	"tenantcore/internal/domain"
)

var _ domain.IdentityLinkRepository = (*IdentityLinkRepo)(nil)

// IdentityLinkRepo implements domain.IdentityLinkRepository using SQLite.
type IdentityLinkRepo struct {
	db *sql.DB
}

// NewIdentityLinkRepo creates a new IdentityLinkRepo.
func NewIdentityLinkRepo(db *sql.DB) *IdentityLinkRepo {
	return &IdentityLinkRepo{db: db}
}

// FindPrincipal returns the principal id mapped to an external (issuer,
// subject) pair, or NotFoundError when no mapping exists.
func (r *IdentityLinkRepo) FindPrincipal(ctx context.Context, issuer, subject string) (string, error) {
	var principalID string
	err := r.db.QueryRowContext(ctx,
		`SELECT principal_id FROM identity_links WHERE issuer = ? AND subject = ?`,
		issuer, subject).Scan(&principalID)
	if err != nil {
		return "", mapDBError(err)
	}
	return principalID, nil
}

// Link creates a new identity mapping. The (issuer, subject) unique key keeps
// the mapping injective: one external reference, exactly one principal.
func (r *IdentityLinkRepo) Link(ctx context.Context, l *domain.IdentityLink) (*domain.IdentityLink, error) {
	now := time.Now().UTC()
	id := domain.NewID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identity_links (id, principal_id, issuer, subject, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, l.PrincipalID, l.Issuer, l.Subject, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &domain.IdentityLink{
		ID:          id,
		PrincipalID: l.PrincipalID,
		Issuer:      l.Issuer,
		Subject:     l.Subject,
		CreatedAt:   now,
	}, nil
}

// Unlink removes an identity mapping.
func (r *IdentityLinkRepo) Unlink(ctx context.Context, issuer, subject string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM identity_links WHERE issuer = ? AND subject = ?`, issuer, subject)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("identity link not found")
	}
	return nil
}

// ListForPrincipal returns all identity links pointing at a principal.
func (r *IdentityLinkRepo) ListForPrincipal(ctx context.Context, principalID string) ([]domain.IdentityLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_id, issuer, subject, created_at
		 FROM identity_links WHERE principal_id = ? ORDER BY created_at`, principalID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var links []domain.IdentityLink
	for rows.Next() {
		var l domain.IdentityLink
		if err := rows.Scan(&l.ID, &l.PrincipalID, &l.Issuer, &l.Subject, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
