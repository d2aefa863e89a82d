package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

type eventService struct {
	users    ports.UserRepository
	events   ports.EventRepository
	blobs    ports.BlobStore
	audit    ports.AuditTrail
	sanitize *bluemonday.Policy
	log      zerolog.Logger
	now      func() time.Time
}

// NewEventService returns an EventService implementation.
func NewEventService(
	users ports.UserRepository,
	events ports.EventRepository,
	blobs ports.BlobStore,
	audit ports.AuditTrail,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		users:    users,
		events:   events,
		blobs:    blobs,
		audit:    audit,
		sanitize: bluemonday.StrictPolicy(),
		log:      log,
		now:      time.Now,
	}
}

// Create validates and stores a new event owned by organizerID.
func (s *eventService) Create(ctx context.Context, organizerID string, in ports.EventInput, ip string) (*domain.Event, error) {
	organizer, err := s.organizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	event := &domain.Event{OrganizerID: organizer.ID, CreatedAt: s.now().UTC()}
	s.apply(event, in)

	if err := s.validate(ctx, event, true); err != nil {
		return nil, err
	}

	if len(in.Banner) > 0 {
		ref, err := s.blobs.Save(ctx, bannerName(in.BannerName), in.Banner)
		if err != nil {
			return nil, fmt.Errorf("create event: store banner: %w", err)
		}
		event.BannerRef = ref
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.audit.Record(ctx, organizer, domain.ActionCreateEvent,
		fmt.Sprintf("event %q created", event.Title), ip)

	s.log.Info().
		Str("event_id", event.ID).
		Str("organizer_id", organizer.ID).
		Msg("event created")

	return event, nil
}

// Update replaces the editable fields of an event owned by organizerID.
// Lowering the capacity never invalidates existing registrations.
func (s *eventService) Update(ctx context.Context, organizerID, eventID string, in ports.EventInput, ip string) (*domain.Event, error) {
	organizer, err := s.organizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if event.OrganizerID != organizer.ID {
		return nil, domain.ErrForbidden
	}

	previousStart := event.StartDate
	s.apply(event, in)

	if err := s.validate(ctx, event, !domain.Day(previousStart).Equal(domain.Day(event.StartDate))); err != nil {
		return nil, err
	}

	if len(in.Banner) > 0 {
		ref, err := s.blobs.Save(ctx, bannerName(in.BannerName), in.Banner)
		if err != nil {
			return nil, fmt.Errorf("update event: store banner: %w", err)
		}
		event.BannerRef = ref
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.audit.Record(ctx, organizer, domain.ActionUpdateEvent,
		fmt.Sprintf("event %q updated", event.Title), ip)

	return event, nil
}

// Delete removes an event owned by organizerID, cascading to its
// registrations and certificates.
func (s *eventService) Delete(ctx context.Context, organizerID, eventID, ip string) error {
	organizer, err := s.organizer(ctx, organizerID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if event.OrganizerID != organizer.ID {
		return domain.ErrForbidden
	}

	if err := s.events.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.audit.Record(ctx, organizer, domain.ActionDeleteEvent,
		fmt.Sprintf("event %q deleted", event.Title), ip)

	s.log.Info().Str("event_id", event.ID).Msg("event deleted")
	return nil
}

// Get returns a single event with its registration count.
func (s *eventService) Get(ctx context.Context, eventID string) (*domain.EventSummary, error) {
	summary, err := s.events.FindSummary(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return summary, nil
}

// List pages through events and records the listing in the audit trail.
func (s *eventService) List(ctx context.Context, actorID string, filter domain.EventFilter, ip string) ([]domain.EventSummary, int64, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, 0, domain.NewFieldError("type", "type must be one of: seminar, talk, workshop, course")
	}
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	var actor *domain.User
	if actorID != "" {
		if u, err := s.users.FindByID(ctx, actorID); err == nil {
			actor = u
		}
	}
	s.audit.Record(ctx, actor, domain.ActionAPIEventList,
		fmt.Sprintf("event list requested (page %d, %d results)", filter.Page, len(events)), ip)

	return events, total, nil
}

func (s *eventService) organizer(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != domain.RoleOrganizer {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

func (s *eventService) apply(e *domain.Event, in ports.EventInput) {
	e.Title = s.clean(in.Title)
	e.Description = s.clean(in.Description)
	e.Location = s.clean(in.Location)
	e.Type = domain.EventType(strings.ToLower(strings.TrimSpace(in.Type)))
	e.StartDate = domain.Day(in.StartDate)
	e.EndDate = domain.Day(in.EndDate)
	e.StartTime = in.StartTime
	e.EndTime = in.EndTime
	e.Capacity = in.Capacity
	e.InstructorID = in.InstructorID
}

// clean strips markup from user-supplied text. The policy escapes entities,
// which are decoded again since the value is stored as plain text.
func (s *eventService) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(text)))
}

// validate runs the event invariants and checks that the responsible
// instructor exists and holds the instructor role.
func (s *eventService) validate(ctx context.Context, e *domain.Event, checkStart bool) error {
	verr := &domain.ValidationError{}
	if err := e.Validate(s.now().UTC(), checkStart); err != nil && !errors.As(err, &verr) {
		return err
	}

	if e.InstructorID != "" && !verr.Has("instructor_id") {
		instructor, err := s.users.FindByID(ctx, e.InstructorID)
		switch {
		case err != nil && !isNotFound(err):
			return fmt.Errorf("validate event: %w", err)
		case err != nil || instructor.Role != domain.RoleInstructor:
			verr.Add("instructor_id", "instructor must reference a user with the instructor role")
		}
	}
	return verr.OrNil()
}

func bannerName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "banner"
	}
	return "banners/" + fmt.Sprintf("%d-%s", time.Now().UnixNano(), base)
}
