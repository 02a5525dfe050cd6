package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// domainStatus maps core sentinels to HTTP. Order matters: the first match wins.
var domainStatus = []struct {
	target error
	code   int
	msg    string // empty means err.Error()
}{
	{domain.ErrInvalidArgument, http.StatusBadRequest, ""},
	{domain.ErrOperatorNotFound, http.StatusNotFound, "operator not found"},
	{domain.ErrOperatorExists, http.StatusConflict, "operator already exists"},
	{domain.ErrStorage, http.StatusServiceUnavailable, "storage unavailable"},
}

// NewHTTPErrorHandler renders every error as {"error": "..."} with the
// request ID attached. Storage failures and unknown errors are logged; their
// causes never reach the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Int("status", code).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("request failed")
		}
		_ = c.JSON(code, errorResponse{Error: msg, RequestID: requestID(c)})
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range domainStatus {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.msg == "" {
			return m.code, err.Error()
		}
		return m.code, m.msg
	}
	return http.StatusInternalServerError, "internal server error"
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
