package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/geotrail/location-log/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs store outages and unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Known domain errors → deterministic HTTP codes. These are checked first
	// because handlers and middleware attach them to *echo.HTTPError.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, "missing token"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "email already exists"
	case errors.Is(err, domain.ErrStoreUnavailable):
		logRequestError(log.Warn(), err, c).Msg("store unavailable")
		return http.StatusServiceUnavailable, "database unavailable"
	}

	// Echo's own errors (404 from router, 405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	logRequestError(log.Error(), err, c).Msg("unhandled error")

	return http.StatusInternalServerError, "server error"
}

// validationMessage prefers the message a handler put on an *echo.HTTPError
// and otherwise strips the sentinel prefix from a service-level error.
func validationMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprintf("%v", he.Message)
	}
	return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
}

func logRequestError(ev *zerolog.Event, err error, c echo.Context) *zerolog.Event {
	return ev.
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
}
