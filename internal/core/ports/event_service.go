package ports

import (
	"context"
	"time"

	"github.com/sgea/academic-events/internal/core/domain"
)

// EventInput carries the editable fields of an event.
type EventInput struct {
	Title        string
	Description  string
	Type         string
	StartDate    time.Time
	EndDate      time.Time
	StartTime    *domain.ClockTime // optional
	EndTime      *domain.ClockTime // optional
	Location     string
	Capacity     int
	InstructorID string
	Banner       []byte // optional image payload
	BannerName   string
}

// EventService manages the event catalogue.
type EventService interface {
	Create(ctx context.Context, organizerID string, in EventInput, ip string) (*domain.Event, error)
	Update(ctx context.Context, organizerID, eventID string, in EventInput, ip string) (*domain.Event, error)
	Delete(ctx context.Context, organizerID, eventID, ip string) error
	Get(ctx context.Context, eventID string) (*domain.EventSummary, error)
	// List pages through events. actorID may be empty for anonymous callers.
	List(ctx context.Context, actorID string, filter domain.EventFilter, ip string) ([]domain.EventSummary, int64, error)
}
