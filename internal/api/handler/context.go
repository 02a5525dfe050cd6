package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/duty-status/internal/api/middleware"
	"github.com/fleetlog/duty-status/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - tenant role requires a non-empty tenant_id; without it the JWT is
//     structurally valid but operationally unusable, so reject with 401.
func ctxClaims(c echo.Context) (role, tenantID string, err error) {
	role, _ = c.Get(middleware.ContextKeyRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	tenantID, _ = c.Get(middleware.ContextKeyTenantID).(string)
	if role == domain.RoleTenant && tenantID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing tenant identity")
	}

	return role, tenantID, nil
}

// scopedTenant returns the tenant a request may act on. Admins get what
// they asked for (possibly empty, meaning all tenants). Tenant tokens get
// their own tenant, and asking for another one is forbidden.
func scopedTenant(c echo.Context, requested string) (string, error) {
	role, claimed, err := ctxClaims(c)
	if err != nil {
		return "", err
	}
	requested = domain.NormalizeID(requested)
	if role == domain.RoleAdmin {
		return requested, nil
	}
	if requested != "" && requested != claimed {
		return "", echo.NewHTTPError(http.StatusForbidden, "access forbidden")
	}
	return claimed, nil
}
