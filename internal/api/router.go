package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/fleetlog/duty-status/docs"
	"github.com/fleetlog/duty-status/internal/api/handler"
	"github.com/fleetlog/duty-status/internal/api/middleware"
	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	JWTSecret    string
	Log          zerolog.Logger
	Operators    ports.OperatorService
	Duty         ports.DutyStatusService
	Identity     ports.IdentityResolver
	Dispatcher   handler.ReportDispatcher
	HealthChecks map[string]ports.HealthChecker
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	operatorHandler := handler.NewOperatorHandler(d.Operators)
	statusHandler := handler.NewStatusHandler(d.Duty, d.Operators)
	reportHandler := handler.NewReportHandler(d.Dispatcher)
	lookupHandler := handler.NewLookupHandler(d.Identity)

	v1 := e.Group("/v1",
		middleware.Auth(d.JWTSecret),
		middleware.RBAC(domain.RoleAdmin, domain.RoleTenant),
	)

	// --- Tenant-scoped routes ---
	tenant := v1.Group("/tenants/:tenant_id", middleware.TenantScope())
	tenant.POST("/operators", operatorHandler.Create)
	tenant.GET("/operators", operatorHandler.List)
	tenant.GET("/operators/:operator_id", operatorHandler.Get)
	tenant.PUT("/operators/:operator_id/status", statusHandler.Update)
	tenant.GET("/lookup/phone", lookupHandler.OperatorIDByPhone)
	tenant.GET("/lookup/card", lookupHandler.OperatorIDByCard)

	// --- Report ingestion ---
	v1.POST("/reports", reportHandler.Create)
	v1.POST("/reports/batch", reportHandler.CreateBatch)

	// --- Identity lookups ---
	v1.GET("/lookup/phone", lookupHandler.ByPhone)
	v1.GET("/lookup/card", lookupHandler.ByCard)
	v1.GET("/lookup/external", lookupHandler.ByExternalServiceID, middleware.RBAC(domain.RoleAdmin))

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
