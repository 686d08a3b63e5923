package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses of the authenticated API.
type errorResponse struct {
	Error string `json:"error"`
}

type createCaseRequest struct {
	ApplicantName  string `json:"applicant_name" validate:"required"`
	ApplicantEmail string `json:"applicant_email" validate:"required,email"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending documents_uploaded under_review approved rejected on_hold"`
}

type assignRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

// Response-only types owned by the transport layer, intentionally separate
// from domain types so the JSON contract is not coupled to internal changes.

type caseResponse struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	ApplicantName  string    `json:"applicant_name"`
	ApplicantEmail string    `json:"applicant_email"`
	Status         string    `json:"status"`
	RiskScore      *float64  `json:"risk_score"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	DocumentsCount int       `json:"documents_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type documentResponse struct {
	ID               string    `json:"id"`
	CaseID           string    `json:"case_id"`
	DocType          string    `json:"doc_type"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type checkResponse struct {
	ID         string         `json:"id"`
	CaseID     string         `json:"case_id"`
	DocumentID string         `json:"document_id"`
	CheckType  string         `json:"check_type"`
	Result     string         `json:"result"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type caseDetailResponse struct {
	caseResponse
	Documents []documentResponse `json:"documents"`
	Checks    []checkResponse    `json:"checks"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type listCasesResponse struct {
	Data       []caseResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
