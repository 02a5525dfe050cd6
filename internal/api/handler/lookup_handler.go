package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/duty-status/internal/api/metrics"
	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// LookupHandler exposes identity resolution by alternate key.
type LookupHandler struct {
	resolver ports.IdentityResolver
	now      func() time.Time
}

func NewLookupHandler(resolver ports.IdentityResolver) *LookupHandler {
	return &LookupHandler{resolver: resolver, now: time.Now}
}

// ByPhone handles GET /v1/lookup/phone.
//
// @Summary      Find an operator by contact phone
// @Description  Admins may omit tenant_id to search every tenant.
// @Tags         lookup
// @Produce      json
// @Security     BearerAuth
// @Param        value      query     string  true   "Phone number"
// @Param        tenant_id  query     string  false  "Tenant ID"
// @Success      200        {object}  operatorResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/lookup/phone [get]
func (h *LookupHandler) ByPhone(c echo.Context) error {
	return h.lookup(c, "phone", h.resolver.ResolveByPhone)
}

// ByCard handles GET /v1/lookup/card.
//
// @Summary      Find an operator by card ID
// @Description  Admins may omit tenant_id to search every tenant.
// @Tags         lookup
// @Produce      json
// @Security     BearerAuth
// @Param        value      query     string  true   "Card ID"
// @Param        tenant_id  query     string  false  "Tenant ID"
// @Success      200        {object}  operatorResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/lookup/card [get]
func (h *LookupHandler) ByCard(c echo.Context) error {
	return h.lookup(c, "card", h.resolver.ResolveByCard)
}

// ByExternalServiceID handles GET /v1/lookup/external. Admin only.
//
// @Summary      Find an operator by external service ID
// @Tags         lookup
// @Produce      json
// @Security     BearerAuth
// @Param        value  query     string  true  "External service ID"
// @Success      200    {object}  operatorResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/lookup/external [get]
func (h *LookupHandler) ByExternalServiceID(c echo.Context) error {
	value, err := lookupValue(c)
	if err != nil {
		return err
	}
	op, err := h.resolver.ResolveByExternalServiceID(c.Request().Context(), value)
	return h.respond(c, "external", op, err)
}

// OperatorIDByPhone handles GET /v1/tenants/:tenant_id/lookup/phone.
//
// @Summary      Resolve an operator ID by contact phone
// @Tags         lookup
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id  path      string  true  "Tenant ID"
// @Param        value      query     string  true  "Phone number"
// @Success      200        {object}  operatorIDResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/tenants/{tenant_id}/lookup/phone [get]
func (h *LookupHandler) OperatorIDByPhone(c echo.Context) error {
	return h.lookupID(c, "phone", h.resolver.ResolveOperatorIDByPhone)
}

// OperatorIDByCard handles GET /v1/tenants/:tenant_id/lookup/card.
//
// @Summary      Resolve an operator ID by card ID
// @Tags         lookup
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id  path      string  true  "Tenant ID"
// @Param        value      query     string  true  "Card ID"
// @Success      200        {object}  operatorIDResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/tenants/{tenant_id}/lookup/card [get]
func (h *LookupHandler) OperatorIDByCard(c echo.Context) error {
	return h.lookupID(c, "card", h.resolver.ResolveOperatorIDByCard)
}

type resolveFunc func(ctx context.Context, tenantID, value string) (*domain.Operator, error)

type resolveIDFunc func(ctx context.Context, tenantID, value string) (string, error)

func (h *LookupHandler) lookup(c echo.Context, key string, resolve resolveFunc) error {
	value, err := lookupValue(c)
	if err != nil {
		return err
	}
	tenant, err := scopedTenant(c, c.QueryParam("tenant_id"))
	if err != nil {
		return err
	}
	op, err := resolve(c.Request().Context(), tenant, value)
	return h.respond(c, key, op, err)
}

func (h *LookupHandler) respond(c echo.Context, key string, op *domain.Operator, err error) error {
	if err != nil {
		return err
	}
	if op == nil {
		metrics.IdentityLookupsTotal.WithLabelValues(key, "miss").Inc()
		return domain.ErrOperatorNotFound
	}
	metrics.IdentityLookupsTotal.WithLabelValues(key, "hit").Inc()
	return c.JSON(http.StatusOK, toOperatorResponse(op, h.now()))
}

func (h *LookupHandler) lookupID(c echo.Context, key string, resolve resolveIDFunc) error {
	value, err := lookupValue(c)
	if err != nil {
		return err
	}
	tenant := domain.NormalizeID(c.Param("tenant_id"))
	id, err := resolve(c.Request().Context(), tenant, value)
	if err != nil {
		return err
	}
	if id == "" {
		metrics.IdentityLookupsTotal.WithLabelValues(key, "miss").Inc()
		return domain.ErrOperatorNotFound
	}
	metrics.IdentityLookupsTotal.WithLabelValues(key, "hit").Inc()
	return c.JSON(http.StatusOK, operatorIDResponse{TenantID: tenant, OperatorID: id})
}

func lookupValue(c echo.Context) (string, error) {
	value := strings.TrimSpace(c.QueryParam("value"))
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "value is required")
	}
	return value, nil
}
