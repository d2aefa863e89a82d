package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/pkg/metrics"
)

type certificateService struct {
	users    ports.UserRepository
	events   ports.EventRepository
	regs     ports.RegistrationRepository
	certs    ports.CertificateRepository
	blobs    ports.BlobStore
	renderer ports.DocumentRenderer
	lock     ports.BatchLock // optional
	audit    ports.AuditTrail
	log      zerolog.Logger
	now      func() time.Time
}

// NewCertificateService returns a CertificateService implementation. lock may
// be nil, in which case overlapping batch runs are not prevented and only the
// (user, event) uniqueness of certificates keeps them consistent.
func NewCertificateService(
	users ports.UserRepository,
	events ports.EventRepository,
	regs ports.RegistrationRepository,
	certs ports.CertificateRepository,
	blobs ports.BlobStore,
	renderer ports.DocumentRenderer,
	lock ports.BatchLock,
	audit ports.AuditTrail,
	log zerolog.Logger,
) ports.CertificateService {
	return &certificateService{
		users:    users,
		events:   events,
		regs:     regs,
		certs:    certs,
		blobs:    blobs,
		renderer: renderer,
		lock:     lock,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// RunBatch issues one certificate per confirmed registration of every event
// that ended before today. Per-registration failures are logged and counted;
// only failures to enumerate the work abort the run.
func (s *certificateService) RunBatch(ctx context.Context, dryRun bool) (*ports.BatchReport, error) {
	start := s.now()
	mode := "issue"
	if dryRun {
		mode = "dry_run"
	}
	defer func() {
		metrics.CertificateBatchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	if s.lock != nil {
		token, ok, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("certificate batch: acquire lock: %w", err)
		}
		if !ok {
			return nil, domain.ErrBatchInProgress
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), token); err != nil {
				s.log.Warn().Err(err).Msg("failed to release certificate batch lock")
			}
		}()
	}

	today := domain.Day(start.UTC())
	report := &ports.BatchReport{DryRun: dryRun, Planned: []ports.PlannedIssuance{}}

	// 1. Events that ended strictly before today.
	events, err := s.events.ListEndedBefore(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("certificate batch: list ended events: %w", err)
	}
	report.Events = len(events)

	for i := range events {
		event := &events[i]

		// 2. Registrations with confirmed presence.
		regs, err := s.regs.ListConfirmed(ctx, event.ID)
		if err != nil {
			s.log.Error().Err(err).Str("event_id", event.ID).Msg("failed to list confirmed registrations")
			report.Failed++
			metrics.CertificatesTotal.WithLabelValues("failed").Inc()
			continue
		}

		for _, reg := range regs {
			// 3. Idempotence guard.
			exists, err := s.certs.Exists(ctx, reg.UserID, event.ID)
			if err != nil {
				s.itemFailed(report, event.ID, reg.UserID, err)
				continue
			}
			if exists {
				report.Skipped++
				metrics.CertificatesTotal.WithLabelValues("skipped").Inc()
				continue
			}

			report.Planned = append(report.Planned, ports.PlannedIssuance{EventID: event.ID, UserID: reg.UserID})
			if dryRun {
				metrics.CertificatesTotal.WithLabelValues("planned").Inc()
				continue
			}

			// 4. Issue, then audit.
			err = s.issue(ctx, event, reg.UserID, today)
			if errors.Is(err, domain.ErrCertificateExists) {
				// A concurrent run got there first.
				report.Skipped++
				metrics.CertificatesTotal.WithLabelValues("skipped").Inc()
				continue
			}
			if err != nil {
				s.itemFailed(report, event.ID, reg.UserID, err)
				continue
			}
			report.Issued++
			metrics.CertificatesTotal.WithLabelValues("issued").Inc()
		}
	}

	s.log.Info().
		Bool("dry_run", dryRun).
		Int("events", report.Events).
		Int("issued", report.Issued).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("planned", len(report.Planned)).
		Msg("certificate batch finished")

	return report, nil
}

func (s *certificateService) issue(ctx context.Context, event *domain.Event, userID string, today time.Time) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load participant: %w", err)
	}

	data := domain.CertificateData{
		ParticipantName: user.FullName(),
		EventTitle:      event.Title,
		EventType:       event.Type,
		StartDate:       event.StartDate,
		EndDate:         event.EndDate,
		Location:        event.Location,
		InstructorName:  s.displayName(ctx, event.InstructorID),
		OrganizerName:   s.displayName(ctx, event.OrganizerID),
		IssuedAt:        today,
	}

	doc, err := s.renderer.Render(data)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDocumentRender, err)
	}

	ref, err := s.blobs.Save(ctx, domain.CertificateFileName(event.ID, user.ID), doc)
	if err != nil {
		return fmt.Errorf("store document: %w", err)
	}

	cert := &domain.Certificate{
		UserID:      user.ID,
		EventID:     event.ID,
		DocumentRef: ref,
		IssuedAt:    s.now().UTC(),
	}
	if err := s.certs.Create(ctx, cert); err != nil {
		return fmt.Errorf("persist certificate: %w", err)
	}

	s.audit.Record(ctx, nil, domain.ActionIssueCertificate,
		fmt.Sprintf("certificate issued to %s for event %q", user.Username, event.Title), "")

	return nil
}

func (s *certificateService) itemFailed(report *ports.BatchReport, eventID, userID string, err error) {
	report.Failed++
	metrics.CertificatesTotal.WithLabelValues("failed").Inc()
	s.log.Error().Err(err).
		Str("event_id", eventID).
		Str("user_id", userID).
		Msg("certificate issuance failed")
}

// displayName resolves a user's name for the document. A missing user renders
// as an empty name rather than failing the issuance.
func (s *certificateService) displayName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("certificate: could not resolve name")
		return ""
	}
	return u.FullName()
}

// ListByUser returns the certificates held by userID.
func (s *certificateService) ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error) {
	certs, err := s.certs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

// Download opens the document of a certificate owned by userID.
func (s *certificateService) Download(ctx context.Context, userID, certificateID, ip string) (*domain.Certificate, io.ReadCloser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("download certificate: %w", err)
	}

	cert, err := s.certs.FindByID(ctx, certificateID)
	if err != nil {
		return nil, nil, fmt.Errorf("download certificate: %w", err)
	}
	// Other users' certificates are reported as missing.
	if cert.UserID != user.ID {
		return nil, nil, domain.ErrCertificateNotFound
	}

	rc, err := s.blobs.Open(ctx, cert.DocumentRef)
	if err != nil {
		return nil, nil, fmt.Errorf("download certificate: open document: %w", err)
	}

	s.audit.Record(ctx, user, domain.ActionDownloadCertificate,
		fmt.Sprintf("user %s downloaded certificate %s", user.Username, cert.ID), ip)

	return cert, rc, nil
}
