package ports

import (
	"context"
	"time"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

// VerificationJob is one unit of work for the verification pipeline.
type VerificationJob struct {
	CaseID     string
	DocumentID string
	DocType    string
	EnqueuedAt time.Time
}

// CheckOutcome is the result of a single check produced by a CheckRunner.
type CheckOutcome struct {
	CheckType domain.CheckType
	Result    domain.VerificationResult
	Details   map[string]any
}

// CheckRunner abstracts the document analysis engine. The production engine is
// an external service; the default implementation is a deterministic heuristic.
type CheckRunner interface {
	Run(ctx context.Context, job VerificationJob) ([]CheckOutcome, error)
}

// CheckRepository defines persistence for check results.
type CheckRepository interface {
	InsertMany(ctx context.Context, checks []*domain.VerificationCheck) error
	ListByCase(ctx context.Context, caseID string) ([]*domain.VerificationCheck, error)
}

// VerificationService processes verification jobs off the dispatcher.
type VerificationService interface {
	Process(ctx context.Context, job VerificationJob) error
}
