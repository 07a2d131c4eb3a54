package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medatlas/directory-api/internal/domain/providers"
	"github.com/medatlas/directory-api/pkg/config"
)

// TransactionalEmailSender relays inquiry payloads through a hosted
// transactional-email HTTP API.
type TransactionalEmailSender struct {
	baseURL    string
	apiKey     string
	fromEmail  string
	toEmail    string
	httpClient *http.Client
}

// Compile-time check
var _ providers.MailSender = (*TransactionalEmailSender)(nil)

// NewTransactionalEmailSender creates a new email sender.
func NewTransactionalEmailSender(cfg *config.EmailConfig) (*TransactionalEmailSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("EMAIL_API_KEY must be set")
	}
	return &TransactionalEmailSender{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		toEmail:   cfg.ToEmail,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type emailAddress struct {
	Email string `json:"email"`
}

type emailPersonalization struct {
	To []emailAddress `json:"to"`
}

type emailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type emailMessage struct {
	Personalizations []emailPersonalization `json:"personalizations"`
	From             emailAddress           `json:"from"`
	ReplyTo          *emailAddress          `json:"reply_to,omitempty"`
	Subject          string                 `json:"subject"`
	Content          []emailContent         `json:"content"`
}

type emailResponse struct {
	MessageID string `json:"message_id"`
}

// Send relays one message and returns the provider-assigned message ID (or
// the request ID header when the provider body is empty).
func (s *TransactionalEmailSender) Send(ctx context.Context, subject, body, replyTo string) (string, error) {
	message := emailMessage{
		Personalizations: []emailPersonalization{{To: []emailAddress{{Email: s.toEmail}}}},
		From:             emailAddress{Email: s.fromEmail},
		Subject:          subject,
		Content:          []emailContent{{Type: "text/plain", Value: body}},
	}
	if replyTo != "" {
		message.ReplyTo = &emailAddress{Email: replyTo}
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email: %w", err)
	}

	endpoint := fmt.Sprintf("%s/mail/send", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("email API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed emailResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.MessageID != "" {
			return parsed.MessageID, nil
		}
	}
	if id := resp.Header.Get("X-Message-Id"); id != "" {
		return id, nil
	}
	return "", nil
}
