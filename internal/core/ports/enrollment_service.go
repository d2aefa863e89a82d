package ports

import (
	"context"

	"github.com/sgea/academic-events/internal/core/domain"
)

// EnrollmentService enforces the enrollment invariants.
type EnrollmentService interface {
	TryEnroll(ctx context.Context, userID, eventID, ip string) (*domain.Registration, error)
	Cancel(ctx context.Context, userID, eventID, ip string) error
	// ConfirmPresence marks a participant as attended. Only the organizer that
	// owns the event may do so.
	ConfirmPresence(ctx context.Context, organizerID, eventID, participantID string, confirmed bool, ip string) (*domain.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Registration, error)
	ListByEvent(ctx context.Context, organizerID, eventID string) ([]domain.Registration, error)
}
