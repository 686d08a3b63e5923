package ports

import (
	"context"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	// List returns a page of entries for an organization, newest first,
	// together with the total count.
	List(ctx context.Context, orgID string, page, pageSize int) ([]*domain.AuditEntry, int64, error)
}

// RecordInput carries one auditable action.
type RecordInput struct {
	OrgID      string
	UserID     string
	UserName   string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

// ListAuditResult is returned by the audit listing.
type ListAuditResult struct {
	Items      []*domain.AuditEntry
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// AuditService records and lists audit entries. Recording is best-effort:
// implementations log failures instead of propagating them, so a broken audit
// store never blocks the primary action.
type AuditService interface {
	Record(ctx context.Context, input RecordInput)
	List(ctx context.Context, orgID string, page, pageSize int) (*ListAuditResult, error)
}
