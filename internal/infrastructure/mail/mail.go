// Package mail delivers outgoing e-mail over SMTP.
package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"
	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/internal/infrastructure/config"
)

// SMTPMailer sends plain-text mails through an SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
	send func(*mailyak.MailYak) error
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth: auth,
		from: cfg.From,
		send: (*mailyak.MailYak).Send,
	}
}

// Send delivers one mail. mailyak has no context support, so the SMTP
// exchange runs in its own goroutine and Send returns as soon as ctx is done.
// An abandoned exchange ends when the server or the OS drops the connection.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mailyak.New(m.addr, m.auth)
	msg.To(to)
	msg.From(m.from)
	msg.FromName("SGEA")
	msg.Subject(subject)
	msg.Plain().Set(body)

	done := make(chan error, 1)
	go func() { done <- m.send(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", to, ctx.Err())
	}
}

// LogMailer writes mails to the log instead of sending them. It is used when
// no SMTP host is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail not sent: no SMTP host configured")
	return nil
}

// New returns the mailer configured by cfg.
func New(cfg config.SMTPConfig, log zerolog.Logger) ports.Mailer {
	if cfg.Host == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg)
}
