package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verityai/kyc-platform/internal/core/ports"
)

// TeamHandler handles organization membership endpoints.
type TeamHandler struct {
	team ports.TeamService
}

func NewTeamHandler(team ports.TeamService) *TeamHandler {
	return &TeamHandler{team: team}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin reviewer viewer"`
}

// List handles GET /v1/team.
//
// @Summary      List team members
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Router       /v1/team [get]
func (h *TeamHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	members, err := h.team.List(c.Request().Context(), id.OrgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// UpdateRole handles PATCH /v1/team/:id/role.
//
// @Summary      Change a member's role
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/team/{id}/role [patch]
func (h *TeamHandler) UpdateRole(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.team.UpdateRole(c.Request().Context(), id.OrgID, c.Param("id"), req.Role, id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

// Remove handles DELETE /v1/team/:id.
//
// @Summary      Remove a member
// @Tags         team
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/team/{id} [delete]
func (h *TeamHandler) Remove(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.team.Remove(c.Request().Context(), id.OrgID, c.Param("id"), id.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
