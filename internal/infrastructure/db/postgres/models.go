package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgea/academic-events/internal/core/domain"
)

type userModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:254;uniqueIndex;not null"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	Phone        string `gorm:"size:20"`
	Institution  string `gorm:"size:255"`
	Role         string `gorm:"size:20;not null;index"`
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type eventModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"size:200;not null"`
	Description  string    `gorm:"type:text"`
	Type         string    `gorm:"size:20;not null;index"`
	StartDate    time.Time `gorm:"type:date;not null;index"`
	EndDate      time.Time `gorm:"type:date;not null;index"`
	StartTime    *string   `gorm:"size:5"`
	EndTime      *string   `gorm:"size:5"`
	Location     string    `gorm:"size:255;not null"`
	Capacity     int       `gorm:"not null;check:capacity > 0"`
	OrganizerID  string    `gorm:"type:uuid;not null;index"`
	InstructorID string    `gorm:"type:uuid;not null;index"`
	BannerRef    string    `gorm:"size:512"`
	CreatedAt    time.Time

	Organizer     userModel           `gorm:"foreignKey:OrganizerID;constraint:OnDelete:CASCADE"`
	Instructor    userModel           `gorm:"foreignKey:InstructorID;constraint:OnDelete:RESTRICT"`
	Registrations []registrationModel `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Certificates  []certificateModel  `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (eventModel) TableName() string { return "events" }

func (m *eventModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type registrationModel struct {
	ID                string `gorm:"type:uuid;primaryKey"`
	UserID            string `gorm:"type:uuid;not null;uniqueIndex:idx_registration_user_event"`
	EventID           string `gorm:"type:uuid;not null;uniqueIndex:idx_registration_user_event;index"`
	PresenceConfirmed bool   `gorm:"not null;default:false"`
	CreatedAt         time.Time

	User userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (registrationModel) TableName() string { return "registrations" }

func (m *registrationModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type certificateModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_event"`
	EventID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_event"`
	DocumentRef string    `gorm:"size:512;not null"`
	IssuedAt    time.Time `gorm:"not null"`

	User userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (certificateModel) TableName() string { return "certificates" }

func (m *certificateModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// validID reports whether id can be compared with a uuid column. Anything
// else cannot match a row and would make PostgreSQL reject the query.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// --- mapping ---

func toUserModel(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		Institution:  u.Institution,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Institution:  m.Institution,
		Role:         domain.Role(m.Role),
		PasswordHash: m.PasswordHash,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toEventModel(e *domain.Event) *eventModel {
	return &eventModel{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Type:         string(e.Type),
		StartDate:    domain.Day(e.StartDate),
		EndDate:      domain.Day(e.EndDate),
		StartTime:    formatClock(e.StartTime),
		EndTime:      formatClock(e.EndTime),
		Location:     e.Location,
		Capacity:     e.Capacity,
		OrganizerID:  e.OrganizerID,
		InstructorID: e.InstructorID,
		BannerRef:    e.BannerRef,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *eventModel) toDomain() *domain.Event {
	return &domain.Event{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Type:         domain.EventType(m.Type),
		StartDate:    domain.Day(m.StartDate),
		EndDate:      domain.Day(m.EndDate),
		StartTime:    parseClock(m.StartTime),
		EndTime:      parseClock(m.EndTime),
		Location:     m.Location,
		Capacity:     m.Capacity,
		OrganizerID:  m.OrganizerID,
		InstructorID: m.InstructorID,
		BannerRef:    m.BannerRef,
		CreatedAt:    m.CreatedAt,
	}
}

func (m *registrationModel) toDomain() domain.Registration {
	return domain.Registration{
		ID:                m.ID,
		UserID:            m.UserID,
		EventID:           m.EventID,
		PresenceConfirmed: m.PresenceConfirmed,
		CreatedAt:         m.CreatedAt,
	}
}

func (m *certificateModel) toDomain() domain.Certificate {
	return domain.Certificate{
		ID:          m.ID,
		UserID:      m.UserID,
		EventID:     m.EventID,
		DocumentRef: m.DocumentRef,
		IssuedAt:    m.IssuedAt,
	}
}

func formatClock(c *domain.ClockTime) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

func parseClock(s *string) *domain.ClockTime {
	if s == nil || *s == "" {
		return nil
	}
	c, err := domain.ParseClock(*s)
	if err != nil {
		return nil
	}
	return &c
}
