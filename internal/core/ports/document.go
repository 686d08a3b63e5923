package ports

import (
	"context"
	"io"
	"time"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

// DocumentRepository defines persistence operations for documents.
type DocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
	FindByID(ctx context.Context, id string) (*domain.Document, error)
	ListByCase(ctx context.Context, caseID string) ([]*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, at time.Time) error
	// CountPending returns how many documents of a case have not finished
	// processing yet (status uploading or processing).
	CountPending(ctx context.Context, caseID string) (int64, error)
}

// ObjectStore abstracts the blob storage backend (MinIO in production).
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// UploadDedup suppresses byte-identical re-submissions of the same file for a case.
type UploadDedup interface {
	IsDuplicate(ctx context.Context, caseID, checksum string) (bool, error)
	Mark(ctx context.Context, caseID, checksum string) error
}

// UploadInput carries one applicant document submission.
type UploadInput struct {
	CaseID      string
	DocType     string
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadResult acknowledges an accepted submission.
type UploadResult struct {
	DocumentID string
	Status     string
}

// DocumentService defines the document submission use cases.
type DocumentService interface {
	// Upload accepts a public document submission: validates it, stores the
	// blob, records the document, and enqueues verification.
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	ListByCase(ctx context.Context, caseID, orgID string) ([]*domain.Document, error)
	// DownloadURL returns a short-lived presigned URL for a stored document.
	DownloadURL(ctx context.Context, documentID, orgID string) (string, error)
}
