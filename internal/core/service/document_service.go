package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/api/metrics"
	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// JobEnqueuer is the interface the service uses to hand work to the
// verification pipeline.
type JobEnqueuer interface {
	Enqueue(job ports.VerificationJob)
}

// DocumentService implements public document submission and staff document access.
type DocumentService struct {
	documents ports.DocumentRepository
	cases     ports.CaseRepository
	store     ports.ObjectStore
	dedup     ports.UploadDedup
	queue     JobEnqueuer
	maxSize   int64
	log       zerolog.Logger
}

func NewDocumentService(
	documents ports.DocumentRepository,
	cases ports.CaseRepository,
	store ports.ObjectStore,
	dedup ports.UploadDedup,
	queue JobEnqueuer,
	maxSize int64,
	log zerolog.Logger,
) *DocumentService {
	if maxSize <= 0 {
		maxSize = 10 << 20 // 10 MiB
	}
	return &DocumentService{
		documents: documents,
		cases:     cases,
		store:     store,
		dedup:     dedup,
		queue:     queue,
		maxSize:   maxSize,
		log:       log,
	}
}

// Upload accepts one applicant document: validates it, stores the blob,
// records the document, advances the case, and enqueues verification.
func (s *DocumentService) Upload(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
	if !domain.ValidDocType(input.DocType) {
		return nil, domain.ErrInvalidDocType
	}
	if input.Size > s.maxSize {
		return nil, domain.ErrDocumentTooLarge
	}

	c, err := s.cases.FindByID(ctx, input.CaseID, "")
	if err != nil {
		return nil, err
	}
	if !c.Status.AcceptsUploads() {
		return nil, domain.ErrCaseClosed
	}

	// Buffer while hashing; the size cap keeps this bounded.
	body, err := io.ReadAll(io.LimitReader(input.Content, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(body)) > s.maxSize {
		return nil, domain.ErrDocumentTooLarge
	}

	sum := sha256.Sum256(body)
	checksum := hex.EncodeToString(sum[:])
	isDup, err := s.dedup.IsDuplicate(ctx, c.ID, checksum)
	if err != nil {
		s.log.Warn().Err(err).Str("case_id", c.ID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.UploadsTotal.WithLabelValues(input.DocType, "duplicate").Inc()
		return nil, domain.ErrDuplicateUpload
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:               uuid.NewString(),
		CaseID:           c.ID,
		DocType:          domain.DocType(input.DocType),
		OriginalFilename: input.Filename,
		FileSize:         int64(len(body)),
		Status:           domain.DocumentProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	doc.StoragePath = fmt.Sprintf("cases/%s/%s/%s", c.ID, doc.ID, input.Filename)

	if err := s.store.Put(ctx, doc.StoragePath, bytes.NewReader(body), doc.FileSize, input.ContentType); err != nil {
		s.log.Error().Err(err).Str("case_id", c.ID).Msg("failed to store document blob")
		return nil, err
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	if markErr := s.dedup.Mark(ctx, c.ID, checksum); markErr != nil {
		s.log.Warn().Err(markErr).Str("case_id", c.ID).Msg("failed to set dedup key")
	}

	if err := s.cases.IncrementDocuments(ctx, c.ID, now); err != nil {
		s.log.Warn().Err(err).Str("case_id", c.ID).Msg("failed to bump documents count")
	}
	if c.Status == domain.CasePending {
		if err := s.cases.UpdateStatus(ctx, c.ID, domain.CaseDocumentsUploaded, now); err != nil {
			s.log.Warn().Err(err).Str("case_id", c.ID).Msg("failed to advance case after upload")
		}
	}

	s.queue.Enqueue(ports.VerificationJob{
		CaseID:     c.ID,
		DocumentID: doc.ID,
		DocType:    input.DocType,
		EnqueuedAt: now,
	})

	metrics.UploadsTotal.WithLabelValues(input.DocType, "accepted").Inc()
	s.log.Info().
		Str("case_id", c.ID).
		Str("document_id", doc.ID).
		Str("doc_type", input.DocType).
		Int64("size", doc.FileSize).
		Msg("document accepted")

	return &ports.UploadResult{DocumentID: doc.ID, Status: string(doc.Status)}, nil
}

// ListByCase returns the documents of a case, scoped to orgID.
func (s *DocumentService) ListByCase(ctx context.Context, caseID, orgID string) ([]*domain.Document, error) {
	if _, err := s.cases.FindByID(ctx, caseID, orgID); err != nil {
		return nil, err
	}
	return s.documents.ListByCase(ctx, caseID)
}

// DownloadURL returns a short-lived presigned URL for a stored document.
func (s *DocumentService) DownloadURL(ctx context.Context, documentID, orgID string) (string, error) {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return "", err
	}
	if _, err := s.cases.FindByID(ctx, doc.CaseID, orgID); err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, doc.StoragePath, 15*time.Minute)
}
