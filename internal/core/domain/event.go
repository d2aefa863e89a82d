package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// EventType classifies an academic event.
type EventType string

const (
	EventSeminar  EventType = "seminar"
	EventTalk     EventType = "talk"
	EventWorkshop EventType = "workshop"
	EventCourse   EventType = "course"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventSeminar, EventTalk, EventWorkshop, EventCourse:
		return true
	}
	return false
}

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (or "HH:MM:SS", seconds ignored).
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("invalid time of day %q", s)
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Before reports whether c is strictly earlier than other.
func (c ClockTime) Before(other ClockTime) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute < other.Minute
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a DateLayout string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// Event is an academic activity that users can enroll in.
type Event struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         EventType  `json:"type"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	StartTime    *ClockTime `json:"-"`
	EndTime      *ClockTime `json:"-"`
	Location     string     `json:"location"`
	Capacity     int        `json:"capacity"`
	OrganizerID  string     `json:"organizer_id"`
	InstructorID string     `json:"instructor_id"`
	BannerRef    string     `json:"banner,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Validate checks the schedule and capacity invariants. The start date must
// not lie before today only when checkStart is set, which callers do on
// creation and whenever the start date changes.
func (e *Event) Validate(today time.Time, checkStart bool) error {
	v := &ValidationError{}

	if strings.TrimSpace(e.Title) == "" {
		v.Add("title", "title is required")
	}
	if !e.Type.Valid() {
		v.Add("type", "type must be one of: seminar, talk, workshop, course")
	}
	if strings.TrimSpace(e.Location) == "" {
		v.Add("location", "location is required")
	}
	if e.Capacity <= 0 {
		v.Add("capacity", "capacity must be a positive integer")
	}
	if e.InstructorID == "" {
		v.Add("instructor_id", "an instructor must be assigned")
	}

	switch {
	case e.StartDate.IsZero():
		v.Add("start_date", "start date is required")
	case checkStart && Day(e.StartDate).Before(Day(today)):
		v.Add("start_date", "start date cannot be in the past")
	}

	switch {
	case e.EndDate.IsZero():
		v.Add("end_date", "end date is required")
	case !e.StartDate.IsZero() && Day(e.EndDate).Before(Day(e.StartDate)):
		v.Add("end_date", "end date must be on or after the start date")
	}

	if e.SameDay() && e.StartTime != nil && e.EndTime != nil && e.EndTime.Before(*e.StartTime) {
		v.Add("end_time", "end time must not be earlier than start time on a single-day event")
	}

	return v.OrNil()
}

// SameDay reports whether the event starts and ends on the same date.
func (e *Event) SameDay() bool {
	return !e.StartDate.IsZero() && Day(e.StartDate).Equal(Day(e.EndDate))
}

// Ended reports whether the event's end date is strictly before today.
func (e *Event) Ended(today time.Time) bool {
	return Day(e.EndDate).Before(Day(today))
}

// VacanciesLeft returns the remaining seats given the current registration
// count. It never goes below zero.
func (e *Event) VacanciesLeft(registered int) int {
	if left := e.Capacity - registered; left > 0 {
		return left
	}
	return 0
}

// EventFilter narrows event listings.
type EventFilter struct {
	Type  EventType
	Query string
	Page  int
	Limit int
}

// EventSummary is an event together with its registration count.
type EventSummary struct {
	Event
	Registered int `json:"registered"`
}
