package ports

import (
	"context"
	"time"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

// ListCasesFilter carries all query parameters for listing cases.
// OrgID is always enforced by the service layer.
type ListCasesFilter struct {
	OrgID      string
	Status     string    // optional: filter by case status
	AssignedTo string    // optional: filter by assignee user id
	Search     string    // optional: partial match on applicant name or email
	DateFrom   time.Time // optional: created_at >= DateFrom
	DateTo     time.Time // optional: created_at <= DateTo
	Page       int       // 1-based
	PageSize   int       // capped at 100 by the service
}

// CaseRepository defines persistence operations for cases.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	// FindByID retrieves a case. When orgID is non-empty the query is scoped
	// to that organization; public lookups pass an empty orgID.
	FindByID(ctx context.Context, id, orgID string) (*domain.Case, error)
	// List returns a page of cases matching filter and the total count.
	List(ctx context.Context, filter ListCasesFilter) ([]*domain.Case, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.CaseStatus, at time.Time) error
	UpdateAssignee(ctx context.Context, id, orgID, assigneeID string, at time.Time) error
	UpdateRiskScore(ctx context.Context, id string, score float64, at time.Time) error
	IncrementDocuments(ctx context.Context, id string, at time.Time) error
	Stats(ctx context.Context, orgID string, since time.Time) (*domain.DashboardStats, error)
}

// CreateCaseInput carries the data needed to open a new case.
type CreateCaseInput struct {
	OrgID          string
	ApplicantName  string
	ApplicantEmail string
	CreatedBy      string
}

// UpdateStatusInput carries a reviewer's status decision.
type UpdateStatusInput struct {
	CaseID    string
	OrgID     string
	Status    string
	UpdatedBy string
}

// AssignInput carries a case assignment.
type AssignInput struct {
	CaseID     string
	OrgID      string
	AssigneeID string
	UpdatedBy  string
}

// PublicCase is the reduced view exposed on the unauthenticated lookup endpoint.
type PublicCase struct {
	ID             string `json:"id"`
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
	Status         string `json:"status"`
}

// CaseDetail is a case together with its documents and check results.
type CaseDetail struct {
	Case      *domain.Case
	Documents []*domain.Document
	Checks    []*domain.VerificationCheck
}

// ListCasesResult is returned by ListCases.
type ListCasesResult struct {
	Items      []*domain.Case
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// CaseService defines the case review use cases.
type CaseService interface {
	CreateCase(ctx context.Context, input CreateCaseInput) (*domain.Case, error)
	GetCase(ctx context.Context, id, orgID string) (*CaseDetail, error)
	ListCases(ctx context.Context, filter ListCasesFilter) (*ListCasesResult, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.Case, error)
	Assign(ctx context.Context, input AssignInput) (*domain.Case, error)
	DashboardStats(ctx context.Context, orgID string) (*domain.DashboardStats, error)
	// PublicLookup serves the unauthenticated onboarding flow.
	PublicLookup(ctx context.Context, id string) (*PublicCase, error)
}
