package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/duty-status/internal/api/metrics"
	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// StatusHandler applies duty-status changes synchronously.
type StatusHandler struct {
	duty      ports.DutyStatusService
	operators ports.OperatorService
	now       func() time.Time
}

func NewStatusHandler(duty ports.DutyStatusService, operators ports.OperatorService) *StatusHandler {
	return &StatusHandler{duty: duty, operators: operators, now: time.Now}
}

// Update handles PUT /v1/tenants/:tenant_id/operators/:operator_id/status.
// The operator must already exist.
//
// @Summary      Set an operator's duty status
// @Tags         status
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id    path      string               true  "Tenant ID"
// @Param        operator_id  path      string               true  "Operator ID"
// @Param        body         body      updateStatusRequest  true  "Status report"
// @Success      200          {object}  updateStatusResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Failure      503          {object}  errorResponse
// @Router       /v1/tenants/{tenant_id}/operators/{operator_id}/status [put]
func (h *StatusHandler) Update(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	tenant, operator := c.Param("tenant_id"), c.Param("operator_id")
	changed, err := h.duty.UpdateStatus(ctx, ports.StatusUpdateInput{
		TenantID:   tenant,
		OperatorID: operator,
		Status:     domain.ParseDutyStatus(req.Status),
		Timestamp:  req.Timestamp,
		DeviceID:   req.DeviceID,
	})
	if err != nil {
		return err
	}
	metrics.StatusChangesTotal.WithLabelValues(strconv.FormatBool(changed)).Inc()

	op, err := h.operators.Get(ctx, tenant, operator)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updateStatusResponse{
		Changed:  changed,
		Operator: toOperatorResponse(op, h.now()),
	})
}
