package ports

import (
	"context"
	"time"

	"github.com/sgea/academic-events/internal/core/domain"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, e *domain.Event) error
	// Delete removes the event together with its registrations and certificates.
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	FindSummary(ctx context.Context, id string) (*domain.EventSummary, error)
	// List returns a page of events ordered by start date and the total count.
	List(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, int64, error)
	// ListEndedBefore returns events whose end date is strictly before day.
	ListEndedBefore(ctx context.Context, day time.Time) ([]domain.Event, error)
}
