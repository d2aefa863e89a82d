package ports

import (
	"context"

	"github.com/sgea/academic-events/internal/core/domain"
)

// RegistrationRepository defines persistence operations for enrollments.
type RegistrationRepository interface {
	// CreateWithinCapacity inserts reg only if the event exists, the user is not
	// yet registered and the event still has a vacancy. The checks and the
	// insert form one atomic unit with respect to concurrent callers.
	// Returns domain.ErrEventNotFound, domain.ErrDuplicateRegistration or
	// domain.ErrCapacityExceeded.
	CreateWithinCapacity(ctx context.Context, reg *domain.Registration) error
	// Delete returns domain.ErrRegistrationNotFound when nothing was removed.
	Delete(ctx context.Context, userID, eventID string) error
	Find(ctx context.Context, userID, eventID string) (*domain.Registration, error)
	SetPresence(ctx context.Context, userID, eventID string, confirmed bool) (*domain.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	ListConfirmed(ctx context.Context, eventID string) ([]domain.Registration, error)
}
