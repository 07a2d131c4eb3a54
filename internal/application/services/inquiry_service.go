package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/providers"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

// Required fields per inquiry kind, checked in order; only the first
// missing field is reported per submission.
var requiredInquiryFields = map[string][]string{
	"contact":      {"name", "email", "phone", "message"},
	"registration": {"name", "email", "phone", "country", "treatment"},
}

// InquirySubmission acknowledges an accepted inquiry.
type InquirySubmission struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// InquiryService validates contact and registration submissions and relays
// them to the care team by email. Nothing is persisted.
type InquiryService struct {
	mailer providers.MailSender
}

// NewInquiryService creates a new inquiry service.
func NewInquiryService(mailer providers.MailSender) *InquiryService {
	return &InquiryService{mailer: mailer}
}

// Submit validates the inquiry and relays it. Validation failures name the
// first missing required field.
func (s *InquiryService) Submit(ctx context.Context, inquiry *entities.Inquiry) (*InquirySubmission, error) {
	if inquiry.Kind == "" {
		inquiry.Kind = "contact"
	}
	required, ok := requiredInquiryFields[inquiry.Kind]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown inquiry kind %q", inquiry.Kind))
	}
	if missing := firstMissingField(inquiry, required); missing != "" {
		return nil, apperrors.NewValidationError(fmt.Sprintf("missing required field: %s", missing))
	}

	inquiry.ID = uuid.NewString()

	subject := fmt.Sprintf("New %s inquiry from %s", inquiry.Kind, inquiry.Name)
	messageID, err := s.mailer.Send(ctx, subject, composeInquiryBody(inquiry), inquiry.Email)
	if err != nil {
		log.Error().Err(err).Str("inquiry_id", inquiry.ID).Msg("failed to relay inquiry email")
		return nil, apperrors.NewExternalError("failed to deliver inquiry", err)
	}

	log.Info().
		Str("inquiry_id", inquiry.ID).
		Str("kind", inquiry.Kind).
		Str("message_id", messageID).
		Msg("inquiry relayed")

	return &InquirySubmission{ID: inquiry.ID, Status: "received"}, nil
}

func firstMissingField(inquiry *entities.Inquiry, required []string) string {
	values := map[string]string{
		"name":      inquiry.Name,
		"email":     inquiry.Email,
		"phone":     inquiry.Phone,
		"country":   inquiry.Country,
		"treatment": inquiry.Treatment,
		"message":   inquiry.Message,
	}
	for _, field := range required {
		if strings.TrimSpace(values[field]) == "" {
			return field
		}
	}
	return ""
}

func composeInquiryBody(inquiry *entities.Inquiry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inquiry ID: %s\n", inquiry.ID)
	fmt.Fprintf(&b, "Kind: %s\n", inquiry.Kind)
	fmt.Fprintf(&b, "Name: %s\n", inquiry.Name)
	fmt.Fprintf(&b, "Email: %s\n", inquiry.Email)
	fmt.Fprintf(&b, "Phone: %s\n", inquiry.Phone)
	if inquiry.Country != "" {
		fmt.Fprintf(&b, "Country: %s\n", inquiry.Country)
	}
	if inquiry.Treatment != "" {
		fmt.Fprintf(&b, "Treatment: %s\n", inquiry.Treatment)
	}
	if inquiry.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", inquiry.Message)
	}
	if inquiry.Page != "" {
		fmt.Fprintf(&b, "\nSubmitted from: %s\n", inquiry.Page)
	}
	return b.String()
}
