package ports

import (
	"context"

	"github.com/sgea/academic-events/internal/core/domain"
)

// CertificateRepository defines persistence operations for certificates.
type CertificateRepository interface {
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	// Create returns domain.ErrCertificateExists when the pair already holds one.
	Create(ctx context.Context, c *domain.Certificate) error
	FindByID(ctx context.Context, id string) (*domain.Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error)
}
