package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID string, role domain.Role) {
	c.Set("user_id", userID)
	c.Set("role", role)
}

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterUserInput, ip string) (*domain.User, error)
	confirmFn  func(ctx context.Context, token, ip string) (*domain.User, error)
	loginFn    func(ctx context.Context, identifier, password string) (string, *domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput, ip string) (*domain.User, error) {
	return s.registerFn(ctx, in, ip)
}

func (s *stubUserService) Confirm(ctx context.Context, token, ip string) (*domain.User, error) {
	return s.confirmFn(ctx, token, ip)
}

func (s *stubUserService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, identifier, password)
}

func (s *stubUserService) Get(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type stubEventService struct {
	lastInput  ports.EventInput
	lastFilter domain.EventFilter
	lastActor  string
	err        error
	summary    *domain.EventSummary
	list       []domain.EventSummary
}

func (s *stubEventService) Create(_ context.Context, organizerID string, in ports.EventInput, _ string) (*domain.Event, error) {
	s.lastActor, s.lastInput = organizerID, in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Event{ID: "e1", Title: in.Title, Type: domain.EventType(in.Type),
		StartDate: in.StartDate, EndDate: in.EndDate, StartTime: in.StartTime, EndTime: in.EndTime,
		Location: in.Location, Capacity: in.Capacity, OrganizerID: organizerID, InstructorID: in.InstructorID}, nil
}

func (s *stubEventService) Update(_ context.Context, organizerID, eventID string, in ports.EventInput, _ string) (*domain.Event, error) {
	s.lastActor, s.lastInput = organizerID, in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Event{ID: eventID}, nil
}

func (s *stubEventService) Delete(_ context.Context, organizerID, _, _ string) error {
	s.lastActor = organizerID
	return s.err
}

func (s *stubEventService) Get(context.Context, string) (*domain.EventSummary, error) {
	if s.summary == nil {
		return nil, domain.ErrEventNotFound
	}
	return s.summary, nil
}

func (s *stubEventService) List(_ context.Context, actorID string, f domain.EventFilter, _ string) ([]domain.EventSummary, int64, error) {
	s.lastActor, s.lastFilter = actorID, f
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.list, int64(len(s.list)), nil
}

type stubEnrollmentService struct {
	err       error
	confirmed *bool
}

func (s *stubEnrollmentService) TryEnroll(_ context.Context, userID, eventID, _ string) (*domain.Registration, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Registration{ID: "r1", UserID: userID, EventID: eventID}, nil
}

func (s *stubEnrollmentService) Cancel(context.Context, string, string, string) error { return s.err }

func (s *stubEnrollmentService) ConfirmPresence(_ context.Context, _, eventID, participantID string, confirmed bool, _ string) (*domain.Registration, error) {
	s.confirmed = &confirmed
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Registration{UserID: participantID, EventID: eventID, PresenceConfirmed: confirmed}, nil
}

func (s *stubEnrollmentService) ListByUser(_ context.Context, userID string) ([]domain.Registration, error) {
	return []domain.Registration{{ID: "r1", UserID: userID}}, s.err
}

func (s *stubEnrollmentService) ListByEvent(_ context.Context, _, eventID string) ([]domain.Registration, error) {
	return []domain.Registration{{ID: "r1", EventID: eventID}}, s.err
}

type stubCertificateService struct {
	lastDryRun bool
	err        error
}

func (s *stubCertificateService) RunBatch(_ context.Context, dryRun bool) (*ports.BatchReport, error) {
	s.lastDryRun = dryRun
	if s.err != nil {
		return nil, s.err
	}
	return &ports.BatchReport{DryRun: dryRun, Planned: []ports.PlannedIssuance{}}, nil
}

func (s *stubCertificateService) ListByUser(_ context.Context, userID string) ([]domain.Certificate, error) {
	return []domain.Certificate{{ID: "c1", UserID: userID, EventID: "e1"}}, nil
}

func (s *stubCertificateService) Download(_ context.Context, userID, certID, _ string) (*domain.Certificate, io.ReadCloser, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return &domain.Certificate{ID: certID, UserID: userID, EventID: "e1"}, io.NopCloser(strings.NewReader("CERTIFICATE")), nil
}

type stubAuditTrail struct {
	lastFilter domain.AuditFilter
}

func (s *stubAuditTrail) Record(context.Context, *domain.User, domain.AuditAction, string, string) {}

func (s *stubAuditTrail) List(_ context.Context, f domain.AuditFilter) ([]domain.AuditLog, int64, error) {
	s.lastFilter = f
	return []domain.AuditLog{{ID: "a1", Action: domain.ActionRegistration}}, 41, nil
}
