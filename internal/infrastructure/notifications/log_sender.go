package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medatlas/directory-api/internal/domain/providers"
)

// LogSender writes messages to the application log instead of relaying them.
// Used in development when no email API key is configured.
type LogSender struct{}

var _ providers.MailSender = LogSender{}

// NewLogSender creates a log-only sender.
func NewLogSender() LogSender {
	return LogSender{}
}

// Send logs the message and fabricates a local message ID.
func (LogSender) Send(ctx context.Context, subject, body, replyTo string) (string, error) {
	id := "local-" + uuid.NewString()
	log.Info().
		Str("subject", subject).
		Str("reply_to", replyTo).
		Str("message_id", id).
		Msg("email relay disabled; logging message instead")
	return id, nil
}
