package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/verityai/kyc-platform/internal/core/ports"
)

// AuditHandler serves the organization audit trail.
type AuditHandler struct {
	audit ports.AuditService
}

func NewAuditHandler(audit ports.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

type listAuditResponse struct {
	Data       []auditEntryResponse `json:"data"`
	Pagination paginationResponse   `json:"pagination"`
}

type auditEntryResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	UserName   string         `json:"user_name,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// List handles GET /v1/audit.
//
// @Summary      List audit entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page (1-based)"
// @Param        page_size  query     int  false  "Page size (max 100)"
// @Success      200        {object}  listAuditResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.audit.List(c.Request().Context(), id.OrgID, page, pageSize)
	if err != nil {
		return err
	}

	resp := listAuditResponse{
		Data: make([]auditEntryResponse, 0, len(result.Items)),
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
		},
	}
	for _, e := range result.Items {
		resp.Data = append(resp.Data, auditEntryResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			UserName:   e.UserName,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Metadata:   e.Metadata,
			CreatedAt:  e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return c.JSON(http.StatusOK, resp)
}
