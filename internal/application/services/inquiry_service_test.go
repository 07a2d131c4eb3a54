package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/entities"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

type stubMailer struct {
	sent    []stubMessage
	failure error
}

type stubMessage struct {
	subject string
	body    string
	replyTo string
}

func (m *stubMailer) Send(ctx context.Context, subject, body, replyTo string) (string, error) {
	if m.failure != nil {
		return "", m.failure
	}
	m.sent = append(m.sent, stubMessage{subject: subject, body: body, replyTo: replyTo})
	return "msg-1", nil
}

func TestInquiryService_Submit_Contact(t *testing.T) {
	mailer := &stubMailer{}
	service := services.NewInquiryService(mailer)

	submission, err := service.Submit(context.Background(), &entities.Inquiry{
		Kind:    "contact",
		Name:    "Asha Patel",
		Email:   "asha@example.com",
		Phone:   "+91 98765 43210",
		Message: "Need help choosing a hospital",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.Equal(t, "received", submission.Status)

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].subject, "contact")
	assert.Contains(t, mailer.sent[0].subject, "Asha Patel")
	assert.Contains(t, mailer.sent[0].body, "Need help choosing a hospital")
	assert.Equal(t, "asha@example.com", mailer.sent[0].replyTo)
}

func TestInquiryService_Submit_DefaultsToContact(t *testing.T) {
	mailer := &stubMailer{}
	service := services.NewInquiryService(mailer)

	_, err := service.Submit(context.Background(), &entities.Inquiry{
		Name:    "Asha Patel",
		Email:   "asha@example.com",
		Phone:   "123",
		Message: "hello",
	})

	require.NoError(t, err)
	assert.Contains(t, mailer.sent[0].subject, "contact")
}

func TestInquiryService_Submit_FirstMissingFieldWins(t *testing.T) {
	service := services.NewInquiryService(&stubMailer{})

	// Phone and message are both missing; phone is checked first.
	_, err := service.Submit(context.Background(), &entities.Inquiry{
		Kind:  "contact",
		Name:  "Asha Patel",
		Email: "asha@example.com",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "missing required field: phone")
	assert.NotContains(t, err.Error(), "message")
}

func TestInquiryService_Submit_RegistrationRequiresTreatment(t *testing.T) {
	service := services.NewInquiryService(&stubMailer{})

	_, err := service.Submit(context.Background(), &entities.Inquiry{
		Kind:    "registration",
		Name:    "Asha Patel",
		Email:   "asha@example.com",
		Phone:   "123",
		Country: "India",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field: treatment")
}

func TestInquiryService_Submit_WhitespaceIsMissing(t *testing.T) {
	service := services.NewInquiryService(&stubMailer{})

	_, err := service.Submit(context.Background(), &entities.Inquiry{
		Kind:    "contact",
		Name:    "   ",
		Email:   "asha@example.com",
		Phone:   "123",
		Message: "hello",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field: name")
}

func TestInquiryService_Submit_UnknownKind(t *testing.T) {
	service := services.NewInquiryService(&stubMailer{})

	_, err := service.Submit(context.Background(), &entities.Inquiry{Kind: "newsletter"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestInquiryService_Submit_MailerFailure(t *testing.T) {
	mailer := &stubMailer{failure: errors.New("provider down")}
	service := services.NewInquiryService(mailer)

	_, err := service.Submit(context.Background(), &entities.Inquiry{
		Kind:    "contact",
		Name:    "Asha Patel",
		Email:   "asha@example.com",
		Phone:   "123",
		Message: "hello",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
}
