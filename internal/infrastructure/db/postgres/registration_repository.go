package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sgea/academic-events/internal/core/domain"
)

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateWithinCapacity runs the duplicate and capacity checks and the insert
// in one transaction holding a FOR UPDATE lock on the event row. Concurrent
// enrollments for the same event are serialised on that lock, so the count
// each of them observes already includes every committed competitor.
func (r *RegistrationRepository) CreateWithinCapacity(ctx context.Context, reg *domain.Registration) error {
	if !validID(reg.EventID) {
		return domain.ErrEventNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event eventModel
		if err := lockEvent(tx, reg.EventID, &event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrEventNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&registrationModel{}).
			Where("user_id = ? AND event_id = ?", reg.UserID, reg.EventID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrDuplicateRegistration
		}

		var registered int64
		if err := tx.Model(&registrationModel{}).
			Where("event_id = ?", reg.EventID).
			Count(&registered).Error; err != nil {
			return err
		}
		if registered >= int64(event.Capacity) {
			return domain.ErrCapacityExceeded
		}

		m := &registrationModel{
			ID:                reg.ID,
			UserID:            reg.UserID,
			EventID:           reg.EventID,
			PresenceConfirmed: false,
			CreatedAt:         reg.CreatedAt,
		}
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return insertError(err)
		}
		reg.ID = m.ID
		reg.PresenceConfirmed = false
		return nil
	})
}

// lockEvent loads the capacity of an event and holds its row until the
// transaction ends.
func lockEvent(tx *gorm.DB, eventID string, dest *eventModel) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "capacity").
		Where("id = ?", eventID).
		First(dest)
}

// insertError maps a unique violation on (user_id, event_id) to the domain
// error. The connection is opened with TranslateError so the driver error
// arrives as gorm.ErrDuplicatedKey.
func insertError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateRegistration
	}
	return err
}

// Delete removes the registration of userID for eventID.
func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID string) error {
	if !validID(userID) || !validID(eventID) {
		return domain.ErrRegistrationNotFound
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&registrationModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

// Find returns the registration of userID for eventID.
func (r *RegistrationRepository) Find(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	if !validID(userID) || !validID(eventID) {
		return nil, domain.ErrRegistrationNotFound
	}
	var m registrationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	reg := m.toDomain()
	return &reg, nil
}

// SetPresence updates the presence flag and returns the stored registration.
func (r *RegistrationRepository) SetPresence(ctx context.Context, userID, eventID string, confirmed bool) (*domain.Registration, error) {
	if !validID(userID) || !validID(eventID) {
		return nil, domain.ErrRegistrationNotFound
	}
	res := r.db.WithContext(ctx).Model(&registrationModel{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Update("presence_confirmed", confirmed)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrRegistrationNotFound
	}
	return r.Find(ctx, userID, eventID)
}

// ListByUser returns a user's registrations, newest first.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	if !validID(userID) {
		return []domain.Registration{}, nil
	}
	return r.list(ctx, r.db.Where("user_id = ?", userID))
}

// ListByEvent returns every registration for an event, newest first.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	if !validID(eventID) {
		return []domain.Registration{}, nil
	}
	return r.list(ctx, r.db.Where("event_id = ?", eventID))
}

// ListConfirmed returns the registrations of an event with presence confirmed.
func (r *RegistrationRepository) ListConfirmed(ctx context.Context, eventID string) ([]domain.Registration, error) {
	if !validID(eventID) {
		return []domain.Registration{}, nil
	}
	return r.list(ctx, r.db.Where("event_id = ? AND presence_confirmed = ?", eventID, true))
}

func (r *RegistrationRepository) list(ctx context.Context, scope *gorm.DB) ([]domain.Registration, error) {
	var models []registrationModel
	if err := scope.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Registration, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}
