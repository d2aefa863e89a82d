package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRouter_Routes(t *testing.T) {
	e := NewRouter(Deps{JWTSecret: "secret", Log: zerolog.Nop()})

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/v1/events", http.StatusUnauthorized},
		{http.MethodPost, "/v1/events/e1/registrations", http.StatusUnauthorized},
		{http.MethodGet, "/v1/me/certificates", http.StatusUnauthorized},
		{http.MethodPost, "/v1/certificates/batch", http.StatusUnauthorized},
		{http.MethodGet, "/v1/audit-logs", http.StatusUnauthorized},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, rec.Code)
			}
		})
	}
}
