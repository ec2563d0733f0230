// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// mailDispatcherService drains the outbound email topic and performs the
// actual SMTP sends, so no request handler ever waits on a mail server.
type mailDispatcherService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
}

func NewMailDispatcherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
) IConsumerService {
	return &mailDispatcherService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
	}
}

func (cs *mailDispatcherService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *mailDispatcherService) processMessage(msg *message.Message) {
	var payload dto.OutboundEmailMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal outbound email: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	var err error
	switch payload.Kind {
	case "approval":
		err = cs.emailService.SendApprovalEmail(payload.To, payload.FullName)
	case "denial":
		err = cs.emailService.SendDenialEmail(payload.To, payload.FullName, payload.Reason)
	case "password_reset":
		err = cs.emailService.SendResetToken(payload.To, payload.Token)
	default:
		log.Printf("[ERROR] Unknown outbound email kind: %q", payload.Kind)
		msg.Ack() // Retrying will not fix an unknown kind
		return
	}

	if err != nil {
		log.Printf("[ERROR] Failed to send %s email to %s: %v", payload.Kind, payload.To, err)
		msg.Nack() // Transport errors are retriable
		return
	}

	log.Printf("[INFO] Outbound %s email dispatched to %s", payload.Kind, payload.To)
	msg.Ack()
}
