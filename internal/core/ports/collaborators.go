package ports

import (
	"context"
	"io"
	"time"

	"github.com/sgea/academic-events/internal/core/domain"
)

// Mailer delivers a single plain-text e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailMessage is a queued outgoing e-mail.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// MailQueue accepts e-mails for asynchronous, best-effort delivery.
type MailQueue interface {
	Enqueue(msg MailMessage)
}

// BlobStore persists opaque documents and returns a reference to them.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// TokenSigner produces tamper-proof, time-limited tokens.
type TokenSigner interface {
	Sign(payload string) (string, error)
	// Unsign returns domain.ErrTokenExpired when the token is older than maxAge
	// and domain.ErrTokenInvalid when it cannot be verified.
	Unsign(token string, maxAge time.Duration) (string, error)
}

// DocumentRenderer turns certificate data into a document.
type DocumentRenderer interface {
	Render(data domain.CertificateData) ([]byte, error)
}

// RateLimiter implements a fixed-window request counter.
type RateLimiter interface {
	Allow(ctx context.Context, scope, key string) (bool, error)
}

// BatchLock guards against overlapping certificate batch runs.
type BatchLock interface {
	// Acquire returns a holder token when the lock was taken.
	Acquire(ctx context.Context) (token string, ok bool, err error)
	Release(ctx context.Context, token string) error
}
