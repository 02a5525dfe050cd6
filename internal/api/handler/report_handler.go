package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

const (
	defaultReportSource = "api"
	maxBatchSize        = 500
)

// ReportDispatcher queues status reports for asynchronous processing.
type ReportDispatcher interface {
	Enqueue(report ports.StatusReport) error
	EnqueueBatch(reports []ports.StatusReport) error
}

// ReportHandler accepts telemetry status reports and hands them to the
// worker pool.
type ReportHandler struct {
	dispatcher ReportDispatcher
}

func NewReportHandler(dispatcher ReportDispatcher) *ReportHandler {
	return &ReportHandler{dispatcher: dispatcher}
}

// Create handles POST /v1/reports.
//
// @Summary      Submit a duty-status report
// @Description  The operator may be named by ID or by phone, card or external service ID.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      statusReportRequest  true  "Status report"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	var req statusReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	report, err := h.toReport(c, req)
	if err != nil {
		return err
	}

	if err := h.dispatcher.Enqueue(report); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "report queue unavailable")
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "report accepted"})
}

// CreateBatch handles POST /v1/reports/batch.
//
// @Summary      Submit a batch of duty-status reports
// @Description  Reports for the same operator are applied in submission order.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []statusReportRequest  true  "Status reports"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/reports/batch [post]
func (h *ReportHandler) CreateBatch(c echo.Context) error {
	var reqs []statusReportRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch is empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "batch too large")
	}

	// Validate everything before queueing anything.
	reports := make([]ports.StatusReport, 0, len(reqs))
	for _, req := range reqs {
		report, err := h.toReport(c, req)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	if err := h.dispatcher.EnqueueBatch(reports); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "report queue unavailable")
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "reports accepted", Count: len(reports)})
}

func (h *ReportHandler) toReport(c echo.Context, req statusReportRequest) (ports.StatusReport, error) {
	if err := c.Validate(&req); err != nil {
		return ports.StatusReport{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	tenant, err := scopedTenant(c, req.TenantID)
	if err != nil {
		return ports.StatusReport{}, err
	}
	if tenant == "" && domain.NormalizeID(req.OperatorID) != "" {
		return ports.StatusReport{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "tenant_id is required")
	}

	source := req.Source
	if source == "" {
		source = defaultReportSource
	}
	return ports.StatusReport{
		TenantID:          tenant,
		OperatorID:        req.OperatorID,
		ContactPhone:      req.ContactPhone,
		CardID:            req.CardID,
		ExternalServiceID: req.ExternalServiceID,
		Status:            req.Status,
		Timestamp:         req.Timestamp,
		DeviceID:          req.DeviceID,
		Source:            source,
	}, nil
}
