package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verityai/kyc-platform/internal/core/ports"
)

// APIKeyHandler manages organization API keys.
type APIKeyHandler struct {
	keys ports.APIKeyService
}

func NewAPIKeyHandler(keys ports.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keys: keys}
}

type createKeyRequest struct {
	Label string `json:"label" validate:"required,min=3,max=64"`
}

type createdKeyResponse struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	KeyPreview string `json:"key_preview"`
	// Secret is returned exactly once at creation time.
	Secret string `json:"secret"`
}

// Create handles POST /v1/apikeys.
//
// @Summary      Issue an API key
// @Tags         apikeys
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createKeyRequest  true  "Key label"
// @Success      201   {object}  createdKeyResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/apikeys [post]
func (h *APIKeyHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.keys.Create(c.Request().Context(), id.OrgID, req.Label, id.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createdKeyResponse{
		ID:         created.Key.ID,
		Label:      created.Key.Label,
		KeyPreview: created.Key.KeyPreview,
		Secret:     created.Secret,
	})
}

// List handles GET /v1/apikeys.
//
// @Summary      List API keys
// @Tags         apikeys
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.APIKey
// @Failure      401  {object}  errorResponse
// @Router       /v1/apikeys [get]
func (h *APIKeyHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	keys, err := h.keys.List(c.Request().Context(), id.OrgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, keys)
}

// Revoke handles DELETE /v1/apikeys/:id.
//
// @Summary      Revoke an API key
// @Tags         apikeys
// @Security     BearerAuth
// @Param        id  path  string  true  "Key id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/apikeys/{id} [delete]
func (h *APIKeyHandler) Revoke(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.keys.Revoke(c.Request().Context(), id.OrgID, c.Param("id"), id.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
