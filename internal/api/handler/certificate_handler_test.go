package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

func TestCertificateHandler_Download(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/v1/certificates/c1/download", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")
	authenticate(c, "pam", domain.RoleParticipant)

	if err := NewCertificateHandler(&stubCertificateService{}).Download(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "CERTIFICATE" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "certificate_e1_pam.txt") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
}

func TestCertificateHandler_Download_NotOwned(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/v1/certificates/c1/download", "")
	authenticate(c, "paul", domain.RoleParticipant)

	err := NewCertificateHandler(&stubCertificateService{err: domain.ErrCertificateNotFound}).Download(c)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestCertificateHandler_RunBatch(t *testing.T) {
	tests := []struct {
		query  string
		dryRun bool
	}{
		{"", false},
		{"?dry_run=true", true},
		{"?dry_run=1", true},
		{"?dry_run=false", false},
	}
	for _, tt := range tests {
		svc := &stubCertificateService{}
		c, rec := newTestContext(http.MethodPost, "/v1/certificates/batch"+tt.query, "")

		if err := NewCertificateHandler(svc).RunBatch(c); err != nil {
			t.Fatalf("%q: handler error: %v", tt.query, err)
		}
		if svc.lastDryRun != tt.dryRun {
			t.Errorf("%q: expected dry_run=%v", tt.query, tt.dryRun)
		}
		var report ports.BatchReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if report.DryRun != tt.dryRun {
			t.Errorf("%q: report dry_run mismatch", tt.query)
		}
	}
}

func TestCertificateHandler_RunBatch_Errors(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/v1/certificates/batch?dry_run=maybe", "")
	if err := NewCertificateHandler(&stubCertificateService{}).RunBatch(c); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}

	c, _ = newTestContext(http.MethodPost, "/v1/certificates/batch", "")
	err := NewCertificateHandler(&stubCertificateService{err: domain.ErrBatchInProgress}).RunBatch(c)
	if !errors.Is(err, domain.ErrBatchInProgress) {
		t.Errorf("expected ErrBatchInProgress, got: %v", err)
	}
}
