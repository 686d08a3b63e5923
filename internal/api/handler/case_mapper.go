package handler

import (
	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

func toCaseResponse(c *domain.Case) caseResponse {
	return caseResponse{
		ID:             c.ID,
		OrgID:          c.OrgID,
		ApplicantName:  c.ApplicantName,
		ApplicantEmail: c.ApplicantEmail,
		Status:         string(c.Status),
		RiskScore:      c.RiskScore,
		AssignedTo:     c.AssignedTo,
		DocumentsCount: c.DocumentsCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toDocumentResponse(d *domain.Document) documentResponse {
	return documentResponse{
		ID:               d.ID,
		CaseID:           d.CaseID,
		DocType:          string(d.DocType),
		OriginalFilename: d.OriginalFilename,
		FileSize:         d.FileSize,
		Status:           string(d.Status),
		CreatedAt:        d.CreatedAt,
	}
}

func toCheckResponse(v *domain.VerificationCheck) checkResponse {
	return checkResponse{
		ID:         v.ID,
		CaseID:     v.CaseID,
		DocumentID: v.DocumentID,
		CheckType:  string(v.CheckType),
		Result:     string(v.Result),
		Details:    v.Details,
		CreatedAt:  v.CreatedAt,
	}
}

func toCaseDetailResponse(d *ports.CaseDetail) caseDetailResponse {
	resp := caseDetailResponse{
		caseResponse: toCaseResponse(d.Case),
		Documents:    make([]documentResponse, 0, len(d.Documents)),
		Checks:       make([]checkResponse, 0, len(d.Checks)),
	}
	for _, doc := range d.Documents {
		resp.Documents = append(resp.Documents, toDocumentResponse(doc))
	}
	for _, chk := range d.Checks {
		resp.Checks = append(resp.Checks, toCheckResponse(chk))
	}
	return resp
}

func toListCasesResponse(r *ports.ListCasesResult) listCasesResponse {
	resp := listCasesResponse{
		Data: make([]caseResponse, 0, len(r.Items)),
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			PageSize:   r.PageSize,
			TotalPages: r.TotalPages,
		},
	}
	for _, c := range r.Items {
		resp.Data = append(resp.Data, toCaseResponse(c))
	}
	return resp
}
