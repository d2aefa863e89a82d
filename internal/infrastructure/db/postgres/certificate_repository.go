package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sgea/academic-events/internal/core/domain"
)

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Exists reports whether userID already holds a certificate for eventID.
func (r *CertificateRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a certificate. The unique (user_id, event_id) index turns a
// concurrent second issuance into domain.ErrCertificateExists.
func (r *CertificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	m := &certificateModel{
		ID:          c.ID,
		UserID:      c.UserID,
		EventID:     c.EventID,
		DocumentRef: c.DocumentRef,
		IssuedAt:    c.IssuedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrCertificateExists
		}
		return err
	}
	c.ID = m.ID
	return nil
}

// FindByID returns the certificate with the given ID.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*domain.Certificate, error) {
	if !validID(id) {
		return nil, domain.ErrCertificateNotFound
	}
	var m certificateModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, err
	}
	c := m.toDomain()
	return &c, nil
}

// ListByUser returns a user's certificates, most recently issued first.
func (r *CertificateRepository) ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error) {
	if !validID(userID) {
		return []domain.Certificate{}, nil
	}
	var models []certificateModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Certificate, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}
