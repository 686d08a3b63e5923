package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/api/metrics"
	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// ProcessedDedup abstracts the "already processed" store so a re-enqueued job
// is skipped instead of double-counted.
type ProcessedDedup interface {
	IsDuplicate(ctx context.Context, caseID, key string) (bool, error)
	Mark(ctx context.Context, caseID, key string) error
}

type verificationService struct {
	documents ports.DocumentRepository
	cases     ports.CaseRepository
	checks    ports.CheckRepository
	runner    ports.CheckRunner
	dedup     ProcessedDedup
	log       zerolog.Logger
}

// NewVerificationService returns a VerificationService implementation.
func NewVerificationService(
	documents ports.DocumentRepository,
	cases ports.CaseRepository,
	checks ports.CheckRepository,
	runner ports.CheckRunner,
	dedup ProcessedDedup,
	log zerolog.Logger,
) ports.VerificationService {
	return &verificationService{
		documents: documents,
		cases:     cases,
		checks:    checks,
		runner:    runner,
		dedup:     dedup,
		log:       log,
	}
}

// Process runs the checks for one uploaded document and advances the document
// and case lifecycles accordingly.
func (s *verificationService) Process(ctx context.Context, job ports.VerificationJob) error {
	start := time.Now()

	// 1. Skip jobs that were already processed (dispatcher restarts, re-enqueues).
	isDup, err := s.dedup.IsDuplicate(ctx, job.CaseID, "processed:"+job.DocumentID)
	if err != nil {
		s.log.Warn().Err(err).Str("document_id", job.DocumentID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("document_id", job.DocumentID).Msg("duplicate job skipped")
		return nil
	}

	doc, err := s.documents.FindByID(ctx, job.DocumentID)
	if err != nil {
		metrics.ChecksErrorsTotal.WithLabelValues("document_not_found").Inc()
		return fmt.Errorf("process job: %w", err)
	}
	if doc.Status != domain.DocumentProcessing {
		s.log.Debug().Str("document_id", doc.ID).Str("status", string(doc.Status)).Msg("document not processable, skipping")
		return nil
	}

	// 2. Run the analysis engine.
	outcomes, err := s.runner.Run(ctx, job)
	if err != nil {
		metrics.ChecksErrorsTotal.WithLabelValues("runner_failed").Inc()
		if stErr := s.documents.UpdateStatus(ctx, doc.ID, domain.DocumentFailed, time.Now().UTC()); stErr != nil {
			s.log.Warn().Err(stErr).Str("document_id", doc.ID).Msg("failed to mark document failed")
		}
		return fmt.Errorf("process job: run checks: %w", err)
	}

	now := time.Now().UTC()
	rows := make([]*domain.VerificationCheck, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, &domain.VerificationCheck{
			ID:         uuid.NewString(),
			CaseID:     job.CaseID,
			DocumentID: job.DocumentID,
			CheckType:  o.CheckType,
			Result:     o.Result,
			Details:    o.Details,
			CreatedAt:  now,
		})
		metrics.ChecksRunTotal.WithLabelValues(string(o.CheckType), string(o.Result)).Inc()
	}
	if err := s.checks.InsertMany(ctx, rows); err != nil {
		metrics.ChecksErrorsTotal.WithLabelValues("persist_failed").Inc()
		return fmt.Errorf("process job: persist checks: %w", err)
	}

	// 3. Mark processed before the remaining writes so a crash-retry cannot
	// duplicate check rows.
	if markErr := s.dedup.Mark(ctx, job.CaseID, "processed:"+job.DocumentID); markErr != nil {
		s.log.Warn().Err(markErr).Str("document_id", job.DocumentID).Msg("failed to set processed key")
	}

	docStatus := domain.DocumentCompleted
	if hasResult(outcomes, domain.ResultFail) {
		docStatus = domain.DocumentFailed
	}
	if err := s.documents.UpdateStatus(ctx, doc.ID, docStatus, now); err != nil {
		return fmt.Errorf("process job: update document: %w", err)
	}

	// 4. Update the case risk score from this document's outcomes.
	score := riskScore(outcomes)
	if err := s.cases.UpdateRiskScore(ctx, job.CaseID, score, now); err != nil {
		s.log.Warn().Err(err).Str("case_id", job.CaseID).Msg("failed to update risk score")
	}

	// 5. Once every document of the case has finished, hand the case to review.
	pending, err := s.documents.CountPending(ctx, job.CaseID)
	if err != nil {
		s.log.Warn().Err(err).Str("case_id", job.CaseID).Msg("failed to count pending documents")
	} else if pending == 0 {
		c, err := s.cases.FindByID(ctx, job.CaseID, "")
		if err == nil && c.Status.CanTransitionTo(domain.CaseUnderReview) {
			if err := s.cases.UpdateStatus(ctx, c.ID, domain.CaseUnderReview, now); err != nil {
				s.log.Warn().Err(err).Str("case_id", c.ID).Msg("failed to move case to review")
			} else {
				metrics.CaseTransitionsTotal.WithLabelValues(string(c.Status), string(domain.CaseUnderReview)).Inc()
			}
		}
	}

	metrics.CheckDuration.WithLabelValues(string(docStatus)).Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("case_id", job.CaseID).
		Str("document_id", job.DocumentID).
		Str("document_status", string(docStatus)).
		Float64("risk_score", score).
		Msg("document verified")

	return nil
}

func hasResult(outcomes []ports.CheckOutcome, r domain.VerificationResult) bool {
	for _, o := range outcomes {
		if o.Result == r {
			return true
		}
	}
	return false
}

// riskScore maps check outcomes to a 0-100 score: failures weigh full, checks
// needing review weigh half.
func riskScore(outcomes []ports.CheckOutcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	var weight float64
	for _, o := range outcomes {
		switch o.Result {
		case domain.ResultFail:
			weight += 1
		case domain.ResultReviewNeeded:
			weight += 0.5
		}
	}
	return 100 * weight / float64(len(outcomes))
}
