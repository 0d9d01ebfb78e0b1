// Package notify delivers signature requests to supervisors by email.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Email is a rendered HTML message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// LogSender writes emails to the log instead of sending them. It is used when no SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, email Email) error {
	log.Info().
		Str("to", email.To).
		Str("subject", email.Subject).
		Int("html_bytes", len(email.HTML)).
		Msg("notify: smtp disabled, email not sent")
	return nil
}
