package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/duty-status/internal/api/metrics"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// OperatorHandler handles operator provisioning and reads.
type OperatorHandler struct {
	service ports.OperatorService
	now     func() time.Time
}

func NewOperatorHandler(service ports.OperatorService) *OperatorHandler {
	return &OperatorHandler{service: service, now: time.Now}
}

// Create handles POST /v1/tenants/:tenant_id/operators.
//
// @Summary      Provision an operator
// @Tags         operators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id  path      string                 true  "Tenant ID"
// @Param        body       body      createOperatorRequest  true  "Operator attributes"
// @Success      201        {object}  operatorResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/tenants/{tenant_id}/operators [post]
func (h *OperatorHandler) Create(c echo.Context) error {
	var req createOperatorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	expiry, err := parseDay(req.LicenseExpiry)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "license_expiry must be YYYY-MM-DD")
	}

	op, err := h.service.Create(c.Request().Context(), ports.CreateOperatorInput{
		TenantID:          c.Param("tenant_id"),
		OperatorID:        req.OperatorID,
		Description:       req.Description,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		CardID:            req.CardID,
		ExternalServiceID: req.ExternalServiceID,
		BadgeID:           req.BadgeID,
		LicenseType:       req.LicenseType,
		LicenseNumber:     req.LicenseNumber,
		LicenseExpiry:     expiry,
	})
	if err != nil {
		return err
	}

	metrics.OperatorsCreatedTotal.Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/v1/tenants/"+op.TenantID+"/operators/"+op.OperatorID)
	return c.JSON(http.StatusCreated, toOperatorResponse(op, h.now()))
}

// Get handles GET /v1/tenants/:tenant_id/operators/:operator_id.
//
// @Summary      Get an operator
// @Tags         operators
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id    path      string  true  "Tenant ID"
// @Param        operator_id  path      string  true  "Operator ID"
// @Success      200          {object}  operatorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /v1/tenants/{tenant_id}/operators/{operator_id} [get]
func (h *OperatorHandler) Get(c echo.Context) error {
	op, err := h.service.Get(c.Request().Context(), c.Param("tenant_id"), c.Param("operator_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOperatorResponse(op, h.now()))
}

// List handles GET /v1/tenants/:tenant_id/operators.
//
// @Summary      List operator IDs of a tenant
// @Tags         operators
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id  path      string  true   "Tenant ID"
// @Param        limit      query     int     false  "Maximum number of IDs (default 100, max 1000)"
// @Success      200        {object}  listOperatorsResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /v1/tenants/{tenant_id}/operators [get]
func (h *OperatorHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	tenant := c.Param("tenant_id")
	ids, err := h.service.ListIDs(c.Request().Context(), tenant, limit)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(http.StatusOK, listOperatorsResponse{
		TenantID:    tenant,
		OperatorIDs: ids,
		Count:       len(ids),
	})
}
