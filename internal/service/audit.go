package service

import (
	"context"

	"tenantcore/internal/domain"
)

// AuditService exposes the audit log read path. Writes happen inside the
// authorization and sharing services at decision time.
type AuditService struct {
	audit domain.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(audit domain.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// List returns audit entries matching the filter, newest first.
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	return s.audit.List(ctx, filter)
}
