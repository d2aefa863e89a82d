package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sgea/academic-events/internal/core/domain"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an event and writes the generated ID back into e.
func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	m := toEventModel(e)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	e.ID = m.ID
	return nil
}

// Update overwrites the editable columns of an existing event.
func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	if !validID(e.ID) {
		return domain.ErrEventNotFound
	}
	m := toEventModel(e)
	res := r.db.WithContext(ctx).Model(&eventModel{ID: e.ID}).
		Select("title", "description", "type", "start_date", "end_date", "start_time", "end_time",
			"location", "capacity", "instructor_id", "banner_ref").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Delete removes the event; registrations and certificates go with it through
// ON DELETE CASCADE.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrEventNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&eventModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// FindByID returns the event with the given ID.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}
	var m eventModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// FindSummary returns the event together with its registration count.
func (r *EventRepository) FindSummary(ctx context.Context, id string) (*domain.EventSummary, error) {
	e, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := r.registrationCounts(ctx, []string{e.ID})
	if err != nil {
		return nil, err
	}
	return &domain.EventSummary{Event: *e, Registered: counts[e.ID]}, nil
}

// List returns a page of events ordered by start date and the total count.
// Query matches the title or description, case-insensitively.
func (r *EventRepository) List(ctx context.Context, f domain.EventFilter) ([]domain.EventSummary, int64, error) {
	q := r.db.WithContext(ctx).Model(&eventModel{})
	if f.Type != "" {
		q = q.Where("type = ?", string(f.Type))
	}
	if f.Query != "" {
		like := "%" + escapeLike(f.Query) + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []eventModel
	if err := q.Order("start_date ASC").Order("start_time ASC NULLS FIRST").Order("title ASC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	counts, err := r.registrationCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.EventSummary, 0, len(models))
	for i := range models {
		e := models[i].toDomain()
		out = append(out, domain.EventSummary{Event: *e, Registered: counts[e.ID]})
	}
	return out, total, nil
}

// ListEndedBefore returns events whose end date is strictly before day.
func (r *EventRepository) ListEndedBefore(ctx context.Context, day time.Time) ([]domain.Event, error) {
	var models []eventModel
	if err := r.db.WithContext(ctx).
		Where("end_date < ?", domain.Day(day)).
		Order("end_date ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Event, 0, len(models))
	for i := range models {
		out = append(out, *models[i].toDomain())
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the LIKE wildcards in s match literally under the default
// backslash escape.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

type eventCount struct {
	EventID string
	Total   int
}

func (r *EventRepository) registrationCounts(ctx context.Context, ids []string) (map[string]int, error) {
	counts := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []eventCount
	if err := r.db.WithContext(ctx).Model(&registrationModel{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", ids).
		Group("event_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}
