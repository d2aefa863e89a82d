package handler

import (
	"time"

	"github.com/sgea/academic-events/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func newPagination(total int64, page, limit int) paginationResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return paginationResponse{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

// --- Auth ---

type registerRequest struct {
	Username        string `json:"username"         validate:"required,max=150"`
	Email           string `json:"email"            validate:"required,email"`
	FirstName       string `json:"first_name"       validate:"required"`
	LastName        string `json:"last_name"        validate:"required"`
	Phone           string `json:"phone"`
	Institution     string `json:"institution"`
	Role            string `json:"role"             validate:"required,oneof=participant instructor organizer"`
	Password        string `json:"password"         validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type loginRequest struct {
	// Identifier is a username or an e-mail address.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type authResponse struct {
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

// --- Events ---

// eventRequest is accepted as JSON or as multipart form data; the optional
// banner image is read from the "banner" form file.
type eventRequest struct {
	Title        string `json:"title"         form:"title"         validate:"required,max=200"`
	Description  string `json:"description"   form:"description"`
	Type         string `json:"type"          form:"type"          validate:"required"`
	StartDate    string `json:"start_date"    form:"start_date"    validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date"      form:"end_date"      validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time"    form:"start_time"`
	EndTime      string `json:"end_time"      form:"end_time"`
	Location     string `json:"location"      form:"location"      validate:"required,max=200"`
	Capacity     int    `json:"capacity"      form:"capacity"`
	InstructorID string `json:"instructor_id" form:"instructor_id" validate:"required"`
}

type eventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Type          string    `json:"type"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	StartTime     string    `json:"start_time,omitempty"`
	EndTime       string    `json:"end_time,omitempty"`
	Location      string    `json:"location"`
	Capacity      int       `json:"capacity"`
	Registered    int       `json:"registered"`
	VacanciesLeft int       `json:"vacancies_left"`
	OrganizerID   string    `json:"organizer_id"`
	InstructorID  string    `json:"instructor_id"`
	Banner        string    `json:"banner,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type listEventsResponse struct {
	Data       []eventResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func toEventResponse(e *domain.Event, registered int) eventResponse {
	resp := eventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Type:          string(e.Type),
		StartDate:     e.StartDate.Format(domain.DateLayout),
		EndDate:       e.EndDate.Format(domain.DateLayout),
		Location:      e.Location,
		Capacity:      e.Capacity,
		Registered:    registered,
		VacanciesLeft: e.VacanciesLeft(registered),
		OrganizerID:   e.OrganizerID,
		InstructorID:  e.InstructorID,
		Banner:        e.BannerRef,
		CreatedAt:     e.CreatedAt,
	}
	if e.StartTime != nil {
		resp.StartTime = e.StartTime.String()
	}
	if e.EndTime != nil {
		resp.EndTime = e.EndTime.String()
	}
	return resp
}

// --- Enrollment ---

type presenceRequest struct {
	Confirmed *bool `json:"confirmed" validate:"required"`
}

type registrationsResponse struct {
	Data []domain.Registration `json:"data"`
}

// --- Certificates ---

type certificatesResponse struct {
	Data []domain.Certificate `json:"data"`
}

// --- Audit ---

type auditLogsResponse struct {
	Data       []domain.AuditLog  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
