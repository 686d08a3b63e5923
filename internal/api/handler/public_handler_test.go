package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

type stubCaseService struct {
	publicLookupFn func(ctx context.Context, id string) (*ports.PublicCase, error)
}

func (s *stubCaseService) CreateCase(_ context.Context, _ ports.CreateCaseInput) (*domain.Case, error) {
	return nil, nil
}

func (s *stubCaseService) GetCase(_ context.Context, _, _ string) (*ports.CaseDetail, error) {
	return nil, nil
}

func (s *stubCaseService) ListCases(_ context.Context, _ ports.ListCasesFilter) (*ports.ListCasesResult, error) {
	return nil, nil
}

func (s *stubCaseService) UpdateStatus(_ context.Context, _ ports.UpdateStatusInput) (*domain.Case, error) {
	return nil, nil
}

func (s *stubCaseService) Assign(_ context.Context, _ ports.AssignInput) (*domain.Case, error) {
	return nil, nil
}

func (s *stubCaseService) DashboardStats(_ context.Context, _ string) (*domain.DashboardStats, error) {
	return nil, nil
}

func (s *stubCaseService) PublicLookup(ctx context.Context, id string) (*ports.PublicCase, error) {
	return s.publicLookupFn(ctx, id)
}

type stubDocumentService struct {
	uploadFn func(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error)
}

func (s *stubDocumentService) Upload(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
	return s.uploadFn(ctx, input)
}

func (s *stubDocumentService) ListByCase(_ context.Context, _, _ string) ([]*domain.Document, error) {
	return nil, nil
}

func (s *stubDocumentService) DownloadURL(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/public/documents/upload", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestPublicHandler_LookupCase_Found(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(&stubCaseService{
		publicLookupFn: func(_ context.Context, id string) (*ports.PublicCase, error) {
			return &ports.PublicCase{ID: id, ApplicantName: "Jane", Status: "pending"}, nil
		},
	}, &stubDocumentService{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/public/cases/c1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := h.LookupCase(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["applicant_name"] != "Jane" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestPublicHandler_LookupCase_NotFound(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(&stubCaseService{
		publicLookupFn: func(_ context.Context, _ string) (*ports.PublicCase, error) {
			return nil, domain.ErrCaseNotFound
		},
	}, &stubDocumentService{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/public/cases/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.LookupCase(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	// The lookup endpoint keeps the {"error": ...} envelope.
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "case not found" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
}

func TestPublicHandler_Upload_Accepted(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(&stubCaseService{}, &stubDocumentService{
		uploadFn: func(_ context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
			if input.CaseID != "c1" || input.DocType != "passport" || input.Filename != "scan.jpg" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.UploadResult{DocumentID: "d1", Status: "processing"}, nil
		},
	}, zerolog.Nop())

	req, rec := multipartUpload(t, map[string]string{"case_id": "c1", "doc_type": "passport"}, "scan.jpg", []byte("jpeg"))
	c := e.NewContext(req, rec)

	if err := h.UploadDocument(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["document_id"] != "d1" || resp["status"] != "processing" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestPublicHandler_Upload_MissingFields(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(&stubCaseService{}, &stubDocumentService{
		uploadFn: func(_ context.Context, _ ports.UploadInput) (*ports.UploadResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}, zerolog.Nop())

	req, rec := multipartUpload(t, map[string]string{"case_id": "c1"}, "scan.jpg", []byte("jpeg"))
	c := e.NewContext(req, rec)
	_ = h.UploadDocument(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	req, rec = multipartUpload(t, map[string]string{"case_id": "c1", "doc_type": "passport"}, "", nil)
	c = e.NewContext(req, rec)
	_ = h.UploadDocument(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", rec.Code)
	}
}

func TestPublicHandler_Upload_ErrorEnvelope(t *testing.T) {
	cases := []struct {
		err    error
		code   int
		detail string
	}{
		{domain.ErrCaseNotFound, http.StatusNotFound, "case not found"},
		{domain.ErrInvalidDocType, http.StatusBadRequest, "unknown document type"},
		{domain.ErrDocumentTooLarge, http.StatusRequestEntityTooLarge, "document exceeds size limit"},
		{domain.ErrDuplicateUpload, http.StatusConflict, "document already submitted"},
		{domain.ErrCaseClosed, http.StatusConflict, "case no longer accepts documents"},
	}

	for _, tc := range cases {
		e := echo.New()
		h := NewPublicHandler(&stubCaseService{}, &stubDocumentService{
			uploadFn: func(_ context.Context, _ ports.UploadInput) (*ports.UploadResult, error) {
				return nil, tc.err
			},
		}, zerolog.Nop())

		req, rec := multipartUpload(t, map[string]string{"case_id": "c1", "doc_type": "passport"}, "scan.jpg", []byte("jpeg"))
		c := e.NewContext(req, rec)
		if err := h.UploadDocument(c); err != nil {
			t.Fatalf("%v: handler error: %v", tc.err, err)
		}
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}

		// Upload failures use the {"detail": ...} envelope.
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp["detail"] != tc.detail {
			t.Fatalf("%v: unexpected detail %q", tc.err, resp["detail"])
		}
	}
}
