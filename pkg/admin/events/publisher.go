package events

import (
	"context"
	"time"

	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher emits admin-domain events onto the event bus. Implementations
// must be safe to call with a nil transport (events are best-effort).
type Publisher interface {
	PublishRegistrationApproved(ctx context.Context, userId uuid.UUID, email, fullName string, decidedBy uuid.UUID)
	PublishRegistrationDenied(ctx context.Context, email, fullName, reason string, decidedBy uuid.UUID)
	PublishUserBlocked(ctx context.Context, userId uuid.UUID, email, reason string)
	PublishUserDeleted(ctx context.Context, userId uuid.UUID, email string)
}

// NatsPublisher publishes admin events through the shared NATS JetStream
// publisher. Failures are logged and swallowed: moderation decisions must
// not fail because the bus is down.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) Publisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) PublishRegistrationApproved(ctx context.Context, userId uuid.UUID, email, fullName string, decidedBy uuid.UUID) {
	if p.publisher == nil {
		return
	}

	event := events.BaseEvent{
		Type: "REGISTRATION_APPROVED",
		Data: map[string]interface{}{
			"user_id":    userId.String(),
			"email":      email,
			"full_name":  fullName,
			"decided_by": decidedBy.String(),
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("ADMIN", "Failed to publish REGISTRATION_APPROVED event", map[string]interface{}{
			"error": err.Error(),
			"email": email,
		})
	}
}

func (p *NatsPublisher) PublishRegistrationDenied(ctx context.Context, email, fullName, reason string, decidedBy uuid.UUID) {
	if p.publisher == nil {
		return
	}

	event := events.BaseEvent{
		Type: "REGISTRATION_DENIED",
		Data: map[string]interface{}{
			"email":      email,
			"full_name":  fullName,
			"reason":     reason,
			"decided_by": decidedBy.String(),
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("ADMIN", "Failed to publish REGISTRATION_DENIED event", map[string]interface{}{
			"error": err.Error(),
			"email": email,
		})
	}
}

func (p *NatsPublisher) PublishUserBlocked(ctx context.Context, userId uuid.UUID, email, reason string) {
	if p.publisher == nil {
		return
	}

	event := events.BaseEvent{
		Type: "USER_BLOCKED",
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"email":   email,
			"reason":  reason,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_BLOCKED event", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userId.String(),
		})
	}
}

func (p *NatsPublisher) PublishUserDeleted(ctx context.Context, userId uuid.UUID, email string) {
	if p.publisher == nil {
		return
	}

	event := events.BaseEvent{
		Type: "USER_DELETED",
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"email":   email,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_DELETED event", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userId.String(),
		})
	}
}
