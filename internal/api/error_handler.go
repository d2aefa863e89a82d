package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "fields": {...}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrValidation.Error(), Fields: verr.Fields}
	}

	// Known domain errors → deterministic HTTP codes.
	if code, ok := statusFor(err); ok {
		return code, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, domain.ErrDuplicateRegistration),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrBatchInProgress):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrRoleForbidden),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInactiveUser):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusGone, true
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, true
	}
	return 0, false
}
