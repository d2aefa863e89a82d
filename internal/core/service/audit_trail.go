package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/pkg/metrics"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type auditTrail struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditTrail returns an AuditTrail backed by repo.
func NewAuditTrail(repo ports.AuditRepository, log zerolog.Logger) ports.AuditTrail {
	return &auditTrail{repo: repo, log: log, now: time.Now}
}

// Record appends an audit entry. It is called after the primary write has
// committed, so a failure here is logged and otherwise ignored.
func (a *auditTrail) Record(ctx context.Context, actor *domain.User, action domain.AuditAction, description, ip string) {
	entry := &domain.AuditLog{
		Action:      action,
		Timestamp:   a.now().UTC(),
		Description: description,
	}
	if actor != nil {
		id := actor.ID
		entry.UserID = &id
	}
	if ip != "" {
		entry.IP = &ip
	}

	// The request may already be finished; the entry must still be written.
	if err := a.repo.Insert(context.WithoutCancel(ctx), entry); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		a.log.Warn().Err(err).
			Str("action", string(action)).
			Str("description", description).
			Msg("failed to write audit entry")
	}
}

// List returns audit entries newest first.
func (a *auditTrail) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, int64, error) {
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, 0, domain.NewFieldError("action", "unknown action tag")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	entries, total, err := a.repo.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
