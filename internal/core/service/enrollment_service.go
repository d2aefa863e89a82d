package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/pkg/metrics"
)

type enrollmentService struct {
	users  ports.UserRepository
	events ports.EventRepository
	regs   ports.RegistrationRepository
	audit  ports.AuditTrail
	log    zerolog.Logger
	now    func() time.Time
}

// NewEnrollmentService returns an EnrollmentService implementation.
func NewEnrollmentService(
	users ports.UserRepository,
	events ports.EventRepository,
	regs ports.RegistrationRepository,
	audit ports.AuditTrail,
	log zerolog.Logger,
) ports.EnrollmentService {
	return &enrollmentService{
		users:  users,
		events: events,
		regs:   regs,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

// TryEnroll registers userID for eventID.
func (s *enrollmentService) TryEnroll(ctx context.Context, userID, eventID, ip string) (*domain.Registration, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		metrics.EnrollmentsTotal.WithLabelValues(enrollResult(err)).Inc()
		return nil, fmt.Errorf("enroll: %w", err)
	}

	// 1. Role gate, independent of the event's state.
	if !user.Role.CanEnroll() {
		metrics.EnrollmentsTotal.WithLabelValues(enrollResult(domain.ErrRoleForbidden)).Inc()
		return nil, domain.ErrRoleForbidden
	}

	// 2. Existence, duplicate and capacity checks plus the insert, atomically.
	reg := &domain.Registration{
		UserID:    user.ID,
		EventID:   eventID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.regs.CreateWithinCapacity(ctx, reg); err != nil {
		metrics.EnrollmentsTotal.WithLabelValues(enrollResult(err)).Inc()
		return nil, fmt.Errorf("enroll: %w", err)
	}
	metrics.EnrollmentsTotal.WithLabelValues("ok").Inc()

	// 3. Audit after commit.
	s.audit.Record(ctx, user, domain.ActionRegistration,
		fmt.Sprintf("user %s enrolled in event %s", user.Username, eventID), ip)

	s.log.Info().
		Str("user_id", user.ID).
		Str("event_id", eventID).
		Msg("registration created")

	return reg, nil
}

// Cancel removes the user's registration for the event.
func (s *enrollmentService) Cancel(ctx context.Context, userID, eventID, ip string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}

	if err := s.regs.Delete(ctx, user.ID, eventID); err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	metrics.CancellationsTotal.Inc()

	s.audit.Record(ctx, user, domain.ActionRegistration,
		fmt.Sprintf("user %s cancelled registration for event %s", user.Username, eventID), ip)

	s.log.Info().
		Str("user_id", user.ID).
		Str("event_id", eventID).
		Msg("registration cancelled")

	return nil
}

// ConfirmPresence flips the attendance flag of a participant's registration.
func (s *enrollmentService) ConfirmPresence(ctx context.Context, organizerID, eventID, participantID string, confirmed bool, ip string) (*domain.Registration, error) {
	organizer, _, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, fmt.Errorf("confirm presence: %w", err)
	}

	reg, err := s.regs.SetPresence(ctx, participantID, eventID, confirmed)
	if err != nil {
		return nil, fmt.Errorf("confirm presence: %w", err)
	}

	s.audit.Record(ctx, organizer, domain.ActionPresenceConfirmation,
		fmt.Sprintf("presence of user %s in event %s set to %t", participantID, eventID, confirmed), ip)

	return reg, nil
}

// ListByUser returns the user's registrations, newest first.
func (s *enrollmentService) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	regs, err := s.regs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// ListByEvent returns the registrations of an event owned by organizerID.
func (s *enrollmentService) ListByEvent(ctx context.Context, organizerID, eventID string) ([]domain.Registration, error) {
	if _, _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	regs, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return regs, nil
}

func (s *enrollmentService) ownedEvent(ctx context.Context, organizerID, eventID string) (*domain.User, *domain.Event, error) {
	organizer, err := s.users.FindByID(ctx, organizerID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if organizer.Role != domain.RoleOrganizer || event.OrganizerID != organizer.ID {
		return nil, nil, domain.ErrForbidden
	}
	return organizer, event, nil
}

func enrollResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateRegistration):
		return "duplicate"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, domain.ErrRoleForbidden):
		return "role_forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
