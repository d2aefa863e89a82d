package domain

import "time"

// AuditAction tags the kind of operation an audit entry describes.
type AuditAction string

const (
	ActionCreateUser           AuditAction = "create_user"
	ActionConfirmUser          AuditAction = "confirm_user"
	ActionCreateEvent          AuditAction = "create_event"
	ActionUpdateEvent          AuditAction = "update_event"
	ActionDeleteEvent          AuditAction = "delete_event"
	ActionAPIEventList         AuditAction = "api_event_list"
	ActionRegistration         AuditAction = "registration"
	ActionPresenceConfirmation AuditAction = "presence_confirmation"
	ActionIssueCertificate     AuditAction = "issue_certificate"
	ActionViewCertificate      AuditAction = "view_certificate"
	ActionDownloadCertificate  AuditAction = "download_certificate"
)

// Valid reports whether a is a known action tag.
func (a AuditAction) Valid() bool {
	switch a {
	case ActionCreateUser, ActionConfirmUser,
		ActionCreateEvent, ActionUpdateEvent, ActionDeleteEvent, ActionAPIEventList,
		ActionRegistration, ActionPresenceConfirmation,
		ActionIssueCertificate, ActionViewCertificate, ActionDownloadCertificate:
		return true
	}
	return false
}

// AuditLog is an append-only record of a sensitive action. A nil UserID marks
// a system action.
type AuditLog struct {
	ID          string      `json:"id"`
	UserID      *string     `json:"user_id"`
	Action      AuditAction `json:"action"`
	Timestamp   time.Time   `json:"timestamp"`
	IP          *string     `json:"ip"`
	Description string      `json:"description"`
}

// AuditFilter narrows audit log listings. Zero values are ignored.
type AuditFilter struct {
	Date   *time.Time
	UserID string
	Action AuditAction
	Text   string
	Page   int
	Limit  int
}
