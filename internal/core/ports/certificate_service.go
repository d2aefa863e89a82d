package ports

import (
	"context"
	"io"

	"github.com/sgea/academic-events/internal/core/domain"
)

// PlannedIssuance identifies a certificate the batch would issue.
type PlannedIssuance struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// BatchReport summarises a certificate batch run.
type BatchReport struct {
	DryRun  bool              `json:"dry_run"`
	Events  int               `json:"events_scanned"`
	Issued  int               `json:"issued"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Planned []PlannedIssuance `json:"planned"`
}

// CertificateService issues and serves participation certificates.
type CertificateService interface {
	RunBatch(ctx context.Context, dryRun bool) (*BatchReport, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error)
	// Download returns the certificate document. Callers must close the reader.
	Download(ctx context.Context, userID, certificateID, ip string) (*domain.Certificate, io.ReadCloser, error)
}
