package client

import (
	"context"
	"errors"
)

// Step is one of the wizard's five mutually exclusive phases.
type Step string

const (
	StepWelcome    Step = "welcome"
	StepSelectType Step = "select_type"
	StepUpload     Step = "upload"
	StepVerifying  Step = "verifying"
	StepSuccess    Step = "success"
)

// OnboardingCase is the public, read-only view of the case the applicant is
// submitting documents for.
type OnboardingCase struct {
	ID             string `json:"id"`
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
	Status         string `json:"status"`
}

// FileUpload is the applicant's selected file, held in wizard memory between
// selection and submission. It is never retried automatically.
type FileUpload struct {
	Name        string
	ContentType string
	Content     []byte
}

// CaseLookup resolves a case on the public, unauthenticated endpoint.
type CaseLookup interface {
	LookupCase(ctx context.Context, caseID string) (*OnboardingCase, error)
}

// DocumentUploader submits one document on the public upload endpoint.
type DocumentUploader interface {
	UploadDocument(ctx context.Context, caseID, docType string, file *FileUpload) error
}

// UploadError carries the server-provided detail of a rejected upload.
type UploadError struct {
	Detail string
}

func (e *UploadError) Error() string { return e.Detail }

const genericUploadError = "verification failed"

// ErrIllegalTransition is returned when an operation is invoked from a step
// it is not legal in.
var ErrIllegalTransition = errors.New("illegal wizard transition")

// Wizard drives an unauthenticated applicant through document submission for
// one case: welcome, type selection, file upload, server verification,
// success. Upload failures return to the upload step with the file preserved
// so the applicant can retry without re-selecting anything.
//
// A Wizard is scoped to one onboarding run and is not safe for concurrent
// use; it mirrors a single applicant clicking through a single flow.
type Wizard struct {
	caseID   string
	lookup   CaseLookup
	uploader DocumentUploader

	step    Step
	cse     *OnboardingCase
	docType string
	file    *FileUpload
	errMsg  string
}

// NewWizard creates a wizard at the welcome step for the given case.
func NewWizard(caseID string, lookup CaseLookup, uploader DocumentUploader) *Wizard {
	return &Wizard{
		caseID:   caseID,
		lookup:   lookup,
		uploader: uploader,
		step:     StepWelcome,
	}
}

// Start resolves the case on the public lookup endpoint. Lookup failure is
// not fatal: the wizard proceeds with a degraded display (no applicant name).
func (w *Wizard) Start(ctx context.Context) {
	cse, err := w.lookup.LookupCase(ctx, w.caseID)
	if err != nil {
		w.cse = nil
		return
	}
	w.cse = cse
}

// Step returns the current phase.
func (w *Wizard) Step() Step { return w.step }

// Case returns the resolved case, or nil when the lookup failed.
func (w *Wizard) Case() *OnboardingCase { return w.cse }

// DocType returns the chosen document type, empty until one is selected.
func (w *Wizard) DocType() string { return w.docType }

// File returns the currently selected file, nil when none is attached.
func (w *Wizard) File() *FileUpload { return w.file }

// ErrorMessage returns the user-visible message from the last failed upload.
func (w *Wizard) ErrorMessage() string { return w.errMsg }

// ApplicantName returns the applicant's name for display, or a generic
// placeholder when the case lookup failed.
func (w *Wizard) ApplicantName() string {
	if w.cse == nil {
		return "Applicant"
	}
	return w.cse.ApplicantName
}

// Begin advances from welcome to document-type selection.
func (w *Wizard) Begin() error {
	if w.step != StepWelcome {
		return ErrIllegalTransition
	}
	w.step = StepSelectType
	return nil
}

// SelectType records the chosen document type and advances to upload.
func (w *Wizard) SelectType(docType string) error {
	if w.step != StepSelectType {
		return ErrIllegalTransition
	}
	w.docType = docType
	w.step = StepUpload
	return nil
}

// Back steps from upload to type selection, or from type selection to the
// welcome screen. Backing out of the upload step discards the file selection
// and any error message; the document type is re-chosen on the way forward.
func (w *Wizard) Back() error {
	switch w.step {
	case StepUpload:
		w.step = StepSelectType
		w.file = nil
		w.errMsg = ""
		w.docType = ""
		return nil
	case StepSelectType:
		w.step = StepWelcome
		return nil
	default:
		return ErrIllegalTransition
	}
}

// Attach sets the file to submit. Only meaningful at the upload step.
func (w *Wizard) Attach(file *FileUpload) error {
	if w.step != StepUpload {
		return ErrIllegalTransition
	}
	w.file = file
	return nil
}

// Submit uploads the attached file. Without a file it is a no-op: no state
// transition and no network call. On success the wizard reaches its terminal
// success step. On any failure it returns to the upload step, keeps the file
// selection, and records the server-provided detail when present.
func (w *Wizard) Submit(ctx context.Context) error {
	if w.step != StepUpload {
		return ErrIllegalTransition
	}
	if w.file == nil {
		return nil
	}

	w.step = StepVerifying
	w.errMsg = ""

	if err := w.uploader.UploadDocument(ctx, w.caseID, w.docType, w.file); err != nil {
		w.step = StepUpload
		var ue *UploadError
		if errors.As(err, &ue) && ue.Detail != "" {
			w.errMsg = ue.Detail
		} else {
			w.errMsg = genericUploadError
		}
		return nil
	}

	w.step = StepSuccess
	w.file = nil
	return nil
}
