package domain

import "time"

// Registration links a user to an event they enrolled in.
type Registration struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	EventID           string    `json:"event_id"`
	PresenceConfirmed bool      `json:"presence_confirmed"`
	CreatedAt         time.Time `json:"created_at"`
}
