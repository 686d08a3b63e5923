package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// PublicHandler serves the unauthenticated applicant onboarding endpoints.
// Its error envelopes are part of the onboarding contract and deliberately
// differ from the authenticated API: the case lookup returns {"error": ...},
// the upload endpoint returns {"detail": ...}.
type PublicHandler struct {
	cases     ports.CaseService
	documents ports.DocumentService
	log       zerolog.Logger
}

func NewPublicHandler(cases ports.CaseService, documents ports.DocumentService, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{cases: cases, documents: documents, log: log}
}

// detailResponse is the upload endpoint's error envelope.
type detailResponse struct {
	Detail string `json:"detail"`
}

type uploadAcceptedResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

// LookupCase handles GET /public/cases/:id.
//
// @Summary      Public case lookup for the onboarding flow
// @Tags         public
// @Produce      json
// @Param        id   path      string  true  "Case id"
// @Success      200  {object}  ports.PublicCase
// @Failure      404  {object}  errorResponse
// @Router       /public/cases/{id} [get]
func (h *PublicHandler) LookupCase(c echo.Context) error {
	pc, err := h.cases.PublicLookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "case not found"})
		}
		h.log.Error().Err(err).Str("case_id", c.Param("id")).Msg("public lookup failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, pc)
}

// UploadDocument handles POST /public/documents/upload (multipart form:
// file, case_id, doc_type).
//
// @Summary      Public document submission for the onboarding flow
// @Tags         public
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true  "Document file (max 10MB)"
// @Param        case_id   formData  string  true  "Case id"
// @Param        doc_type  formData  string  true  "Document type"
// @Success      202  {object}  uploadAcceptedResponse
// @Failure      400  {object}  detailResponse
// @Failure      404  {object}  detailResponse
// @Failure      409  {object}  detailResponse
// @Failure      413  {object}  detailResponse
// @Router       /public/documents/upload [post]
func (h *PublicHandler) UploadDocument(c echo.Context) error {
	caseID := c.FormValue("case_id")
	docType := c.FormValue("doc_type")
	if caseID == "" || docType == "" {
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "case_id and doc_type are required"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "unreadable file"})
	}
	defer src.Close()

	result, err := h.documents.Upload(c.Request().Context(), ports.UploadInput{
		CaseID:      caseID,
		DocType:     docType,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     src,
	})
	if err != nil {
		return h.uploadError(c, err)
	}

	return c.JSON(http.StatusAccepted, uploadAcceptedResponse{
		DocumentID: result.DocumentID,
		Status:     result.Status,
	})
}

// uploadError maps domain errors to the {"detail": ...} envelope.
func (h *PublicHandler) uploadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrCaseNotFound):
		return c.JSON(http.StatusNotFound, detailResponse{Detail: "case not found"})
	case errors.Is(err, domain.ErrInvalidDocType):
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "unknown document type"})
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, detailResponse{Detail: "document exceeds size limit"})
	case errors.Is(err, domain.ErrDuplicateUpload):
		return c.JSON(http.StatusConflict, detailResponse{Detail: "document already submitted"})
	case errors.Is(err, domain.ErrCaseClosed):
		return c.JSON(http.StatusConflict, detailResponse{Detail: "case no longer accepts documents"})
	}

	h.log.Error().Err(err).Msg("public upload failed")
	return c.JSON(http.StatusInternalServerError, detailResponse{Detail: "verification failed"})
}
