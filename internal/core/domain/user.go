package domain

import (
	"strings"
	"time"
)

// Role is the business classification of a user. It never changes after
// registration.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleInstructor  Role = "instructor"
	RoleOrganizer   Role = "organizer"
)

// ParseRole returns the Role named by s.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleParticipant, RoleInstructor, RoleOrganizer:
		return r, true
	default:
		return "", false
	}
}

// CanEnroll reports whether users with this role may register for events.
func (r Role) CanEnroll() bool {
	switch r {
	case RoleParticipant, RoleInstructor:
		return true
	case RoleOrganizer:
		return false
	default:
		return false
	}
}

// RequiresInstitution reports whether users with this role must declare an
// institution.
func (r Role) RequiresInstitution() bool {
	switch r {
	case RoleParticipant, RoleInstructor:
		return true
	case RoleOrganizer:
		return false
	default:
		return false
	}
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	Institution  string    `json:"institution,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Validate checks the invariants that depend on the user's role.
func (u *User) Validate() error {
	v := &ValidationError{}
	if _, ok := ParseRole(string(u.Role)); !ok {
		v.Add("role", "role must be one of: participant, instructor, organizer")
	}
	if u.Role.RequiresInstitution() && strings.TrimSpace(u.Institution) == "" {
		v.Add("institution", "institution is required for participants and instructors")
	}
	return v.OrNil()
}
