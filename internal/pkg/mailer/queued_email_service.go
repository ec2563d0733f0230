// FILE: internal/pkg/mailer/queued_email_service.go
package mailer

import (
	"context"
	"encoding/json"

	"ai-chat-be/internal/dto"
)

// Publisher is the slice of the message bus the queued mailer needs.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// queuedEmailService satisfies IEmailService by enqueueing the email onto the
// outbound topic instead of dialing SMTP. Request paths use this one; the
// dispatcher consumes the topic and sends through the real emailService.
type queuedEmailService struct {
	publisher Publisher
}

func NewQueuedEmailService(publisher Publisher) IEmailService {
	return &queuedEmailService{publisher: publisher}
}

func (s *queuedEmailService) enqueue(msg dto.OutboundEmailMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.publisher.Publish(context.Background(), payload)
}

func (s *queuedEmailService) SendApprovalEmail(toEmail, fullName string) error {
	return s.enqueue(dto.OutboundEmailMessage{
		Kind:     "approval",
		To:       toEmail,
		FullName: fullName,
	})
}

func (s *queuedEmailService) SendDenialEmail(toEmail, fullName, reason string) error {
	return s.enqueue(dto.OutboundEmailMessage{
		Kind:     "denial",
		To:       toEmail,
		FullName: fullName,
		Reason:   reason,
	})
}

func (s *queuedEmailService) SendResetToken(toEmail, token string) error {
	return s.enqueue(dto.OutboundEmailMessage{
		Kind:  "password_reset",
		To:    toEmail,
		Token: token,
	})
}
