package providers

import (
	"context"
)

// MailSender relays a composed message to the outbound transactional-email
// service. Implementations return the provider-assigned message ID.
type MailSender interface {
	Send(ctx context.Context, subject, body, replyTo string) (string, error)
}
