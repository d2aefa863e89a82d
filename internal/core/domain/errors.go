package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = notFound("user not found")
	ErrEventNotFound        = notFound("event not found")
	ErrRegistrationNotFound = notFound("registration not found")
	ErrCertificateNotFound  = notFound("certificate not found")

	ErrDuplicateRegistration = errors.New("user is already registered for this event")
	ErrCapacityExceeded      = errors.New("event has no vacancies left")
	ErrRoleForbidden         = errors.New("organizers cannot enroll in events")
	ErrForbidden             = errors.New("access forbidden")

	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("account has not been confirmed")

	ErrTokenExpired = errors.New("confirmation link has expired")
	ErrTokenInvalid = errors.New("confirmation link is invalid")

	ErrDocumentRender    = errors.New("certificate document could not be rendered")
	ErrCertificateExists = errors.New("certificate already issued")
	ErrBatchInProgress   = errors.New("certificate batch already running")

	ErrRateLimited = errors.New("too many requests")
)

// notFoundError keeps a specific message while still matching ErrNotFound.
type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError collects one human-readable message per offending field.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// Add records msg for field. The first message recorded for a field wins.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

// Has reports whether field has a recorded violation.
func (v *ValidationError) Has(field string) bool {
	_, ok := v.Fields[field]
	return ok
}

// OrNil returns v as an error when it holds at least one violation.
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewFieldError is shorthand for a ValidationError with a single field.
func NewFieldError(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}
