package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, resp
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrDuplicateRegistration, http.StatusConflict},
		{domain.ErrCapacityExceeded, http.StatusConflict},
		{domain.ErrBatchInProgress, http.StatusConflict},
		{domain.ErrRoleForbidden, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrEventNotFound, http.StatusNotFound},
		{fmt.Errorf("cancel: %w", domain.ErrRegistrationNotFound), http.StatusNotFound},
		{domain.ErrTokenExpired, http.StatusGone},
		{domain.ErrTokenInvalid, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec, resp := runErrorHandler(t, tt.err)
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, rec.Code)
			}
			if resp.Error == "" {
				t.Errorf("expected error message in envelope")
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("end_time", "end time must not be before start time")

	rec, resp := runErrorHandler(t, fmt.Errorf("create event: %w", verr))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if resp.Fields["end_time"] == "" {
		t.Errorf("expected end_time in fields, got %+v", resp.Fields)
	}
}

func TestHTTPErrorHandler_InternalErrorHidesCause(t *testing.T) {
	_, resp := runErrorHandler(t, errors.New("pq: password authentication failed"))
	if resp.Error != "internal server error" {
		t.Errorf("internal error leaked: %q", resp.Error)
	}
}
