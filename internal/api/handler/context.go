package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// identity is the authenticated caller extracted from context.
type identity struct {
	UserID string
	OrgID  string
	Role   string
}

// ctxIdentity extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: a token without both a subject
// and an organization is structurally valid but operationally unusable.
func ctxIdentity(c echo.Context) (identity, error) {
	userID, _ := c.Get("user_id").(string)
	orgID, _ := c.Get("org_id").(string)
	role, _ := c.Get("role").(string)

	if userID == "" || orgID == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity{UserID: userID, OrgID: orgID, Role: role}, nil
}
