package domain

import (
	"fmt"
	"time"
)

// Certificate records that a user attended an event. At most one exists per
// (user, event) pair and it is never modified after issuance.
type Certificate struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EventID     string    `json:"event_id"`
	DocumentRef string    `json:"-"`
	IssuedAt    time.Time `json:"issued_at"`
}

// CertificateData is everything a renderer needs to produce a document.
type CertificateData struct {
	ParticipantName string
	EventTitle      string
	EventType       EventType
	StartDate       time.Time
	EndDate         time.Time
	Location        string
	InstructorName  string
	OrganizerName   string
	IssuedAt        time.Time
}

// CertificateFileName is the blob name used for a certificate document.
func CertificateFileName(eventID, userID string) string {
	return fmt.Sprintf("certificate_%s_%s.txt", eventID, userID)
}
