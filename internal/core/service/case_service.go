package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/api/metrics"
	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

const maxPageSize = 100

// CaseService implements the case review use cases.
type CaseService struct {
	cases     ports.CaseRepository
	documents ports.DocumentRepository
	checks    ports.CheckRepository
	users     ports.UserRepository
	audit     ports.AuditService
	log       zerolog.Logger
}

func NewCaseService(
	cases ports.CaseRepository,
	documents ports.DocumentRepository,
	checks ports.CheckRepository,
	users ports.UserRepository,
	audit ports.AuditService,
	log zerolog.Logger,
) *CaseService {
	return &CaseService{cases: cases, documents: documents, checks: checks, users: users, audit: audit, log: log}
}

// CreateCase opens a new verification case in status pending.
func (s *CaseService) CreateCase(ctx context.Context, input ports.CreateCaseInput) (*domain.Case, error) {
	now := time.Now().UTC()
	c := &domain.Case{
		ID:             uuid.NewString(),
		OrgID:          input.OrgID,
		ApplicantName:  input.ApplicantName,
		ApplicantEmail: input.ApplicantEmail,
		Status:         domain.CasePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.cases.Create(ctx, c); err != nil {
		s.log.Error().Err(err).Str("org_id", input.OrgID).Msg("failed to create case")
		return nil, err
	}

	metrics.CasesCreatedTotal.Inc()
	s.log.Info().Str("case_id", c.ID).Str("org_id", c.OrgID).Msg("case created")

	s.audit.Record(ctx, ports.RecordInput{
		OrgID:      input.OrgID,
		UserID:     input.CreatedBy,
		Action:     domain.ActionCaseCreated,
		EntityType: "case",
		EntityID:   c.ID,
		Metadata:   map[string]any{"applicant_name": c.ApplicantName},
	})
	return c, nil
}

// GetCase returns a case with its documents and check results, scoped to orgID.
func (s *CaseService) GetCase(ctx context.Context, id, orgID string) (*ports.CaseDetail, error) {
	c, err := s.cases.FindByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	checks, err := s.checks.ListByCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return &ports.CaseDetail{Case: c, Documents: docs, Checks: checks}, nil
}

// ListCases returns a filtered page of cases for an organization.
func (s *CaseService) ListCases(ctx context.Context, filter ports.ListCasesFilter) (*ports.ListCasesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	items, total, err := s.cases.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &ports.ListCasesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus applies a reviewer decision, enforcing the case state machine.
func (s *CaseService) UpdateStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.Case, error) {
	if !domain.ValidCaseStatus(input.Status) {
		return nil, domain.ErrInvalidTransition
	}
	next := domain.CaseStatus(input.Status)

	c, err := s.cases.FindByID(ctx, input.CaseID, input.OrgID)
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := s.cases.UpdateStatus(ctx, c.ID, next, now); err != nil {
		return nil, err
	}

	metrics.CaseTransitionsTotal.WithLabelValues(string(c.Status), string(next)).Inc()
	s.log.Info().Str("case_id", c.ID).Str("from", string(c.Status)).Str("to", string(next)).Msg("case status changed")

	s.audit.Record(ctx, ports.RecordInput{
		OrgID:      input.OrgID,
		UserID:     input.UpdatedBy,
		Action:     domain.ActionCaseStatus,
		EntityType: "case",
		EntityID:   c.ID,
		Metadata:   map[string]any{"from": string(c.Status), "to": string(next)},
	})

	c.Status = next
	c.UpdatedAt = now
	return c, nil
}

// Assign sets the case assignee; the assignee must belong to the same organization.
func (s *CaseService) Assign(ctx context.Context, input ports.AssignInput) (*domain.Case, error) {
	c, err := s.cases.FindByID(ctx, input.CaseID, input.OrgID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.users.FindByID(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}
	if assignee.OrgID != input.OrgID {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	if err := s.cases.UpdateAssignee(ctx, c.ID, input.OrgID, assignee.ID, now); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, ports.RecordInput{
		OrgID:      input.OrgID,
		UserID:     input.UpdatedBy,
		Action:     domain.ActionCaseAssigned,
		EntityType: "case",
		EntityID:   c.ID,
		Metadata:   map[string]any{"assigned_to": assignee.ID},
	})

	c.AssignedTo = assignee.ID
	c.UpdatedAt = now
	return c, nil
}

// DashboardStats returns the aggregate snapshot for the operations dashboard.
func (s *CaseService) DashboardStats(ctx context.Context, orgID string) (*domain.DashboardStats, error) {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	return s.cases.Stats(ctx, orgID, midnight)
}

// PublicLookup serves the unauthenticated onboarding flow with a reduced view.
func (s *CaseService) PublicLookup(ctx context.Context, id string) (*ports.PublicCase, error) {
	c, err := s.cases.FindByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	return &ports.PublicCase{
		ID:             c.ID,
		ApplicantName:  c.ApplicantName,
		ApplicantEmail: c.ApplicantEmail,
		Status:         string(c.Status),
	}, nil
}
