package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// AuditService writes and reads the organization audit trail.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Record appends one entry. Failures are logged, never propagated: a broken
// audit store must not block the action being audited.
func (s *AuditService) Record(ctx context.Context, input ports.RecordInput) {
	entry := &domain.AuditEntry{
		ID:         uuid.NewString(),
		OrgID:      input.OrgID,
		UserID:     input.UserID,
		UserName:   input.UserName,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Metadata:   input.Metadata,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("action", input.Action).
			Str("entity_id", input.EntityID).
			Msg("failed to write audit entry")
	}
}

// List returns a page of entries for an organization, newest first.
func (s *AuditService) List(ctx context.Context, orgID string, page, pageSize int) (*ports.ListAuditResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, orgID, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &ports.ListAuditResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
