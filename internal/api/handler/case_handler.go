package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/verityai/kyc-platform/internal/core/ports"
)

// CaseHandler handles the authenticated case review endpoints.
type CaseHandler struct {
	cases     ports.CaseService
	documents ports.DocumentService
}

func NewCaseHandler(cases ports.CaseService, documents ports.DocumentService) *CaseHandler {
	return &CaseHandler{cases: cases, documents: documents}
}

// Create handles POST /v1/cases.
//
// @Summary      Open a new verification case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCaseRequest  true  "Applicant details"
// @Success      201   {object}  caseResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/cases [post]
func (h *CaseHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.cases.CreateCase(c.Request().Context(), ports.CreateCaseInput{
		OrgID:          id.OrgID,
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		CreatedBy:      id.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCaseResponse(created))
}

// List handles GET /v1/cases.
//
// @Summary      List cases
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        assigned_to  query     string  false  "Filter by assignee"
// @Param        search       query     string  false  "Partial match on applicant name or email"
// @Param        date_from    query     string  false  "RFC3339 lower bound on created_at"
// @Param        date_to      query     string  false  "RFC3339 upper bound on created_at"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        page_size    query     int     false  "Page size (max 100)"
// @Success      200          {object}  listCasesResponse
// @Failure      401          {object}  errorResponse
// @Router       /v1/cases [get]
func (h *CaseHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	filter := ports.ListCasesFilter{
		OrgID:      id.OrgID,
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assigned_to"),
		Search:     c.QueryParam("search"),
	}
	if v := c.QueryParam("date_from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateFrom = t
		}
	}
	if v := c.QueryParam("date_to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateTo = t
		}
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.cases.ListCases(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListCasesResponse(result))
}

// Get handles GET /v1/cases/:id.
//
// @Summary      Get a case with documents and checks
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case id"
// @Success      200  {object}  caseDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cases/{id} [get]
func (h *CaseHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.cases.GetCase(c.Request().Context(), c.Param("id"), id.OrgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseDetailResponse(detail))
}

// UpdateStatus handles PATCH /v1/cases/:id/status.
//
// @Summary      Apply a status decision
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Case id"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  caseResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cases/{id}/status [patch]
func (h *CaseHandler) UpdateStatus(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.cases.UpdateStatus(c.Request().Context(), ports.UpdateStatusInput{
		CaseID:    c.Param("id"),
		OrgID:     id.OrgID,
		Status:    req.Status,
		UpdatedBy: id.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(updated))
}

// Assign handles PATCH /v1/cases/:id/assign.
//
// @Summary      Assign a case to a team member
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Case id"
// @Param        body  body      assignRequest  true  "Assignee"
// @Success      200   {object}  caseResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/cases/{id}/assign [patch]
func (h *CaseHandler) Assign(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.cases.Assign(c.Request().Context(), ports.AssignInput{
		CaseID:     c.Param("id"),
		OrgID:      id.OrgID,
		AssigneeID: req.AssigneeID,
		UpdatedBy:  id.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(updated))
}

// DocumentURL handles GET /v1/documents/:id/url.
//
// @Summary      Presigned download URL for a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /v1/documents/{id}/url [get]
func (h *CaseHandler) DocumentURL(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	url, err := h.documents.DownloadURL(c.Request().Context(), c.Param("id"), id.OrgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// Stats handles GET /v1/dashboard/stats.
//
// @Summary      Dashboard aggregates
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard/stats [get]
func (h *CaseHandler) Stats(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.cases.DashboardStats(c.Request().Context(), id.OrgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
