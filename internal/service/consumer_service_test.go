package service

import (
	"context"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanMailer pushes every send onto a channel so the test can wait for the
// dispatcher goroutine without sharing mutable state with it.
type chanMailer struct {
	sent chan dto.OutboundEmailMessage
}

func newChanMailer() *chanMailer {
	return &chanMailer{sent: make(chan dto.OutboundEmailMessage, 16)}
}

func (m *chanMailer) SendApprovalEmail(toEmail, fullName string) error {
	m.sent <- dto.OutboundEmailMessage{Kind: "approval", To: toEmail, FullName: fullName}
	return nil
}

func (m *chanMailer) SendDenialEmail(toEmail, fullName, reason string) error {
	m.sent <- dto.OutboundEmailMessage{Kind: "denial", To: toEmail, FullName: fullName, Reason: reason}
	return nil
}

func (m *chanMailer) SendResetToken(toEmail, token string) error {
	m.sent <- dto.OutboundEmailMessage{Kind: "password_reset", To: toEmail, Token: token}
	return nil
}

// newMailPipeline wires the queued facade and the dispatcher to the same
// in-process bus, the way the container does, and starts the dispatcher.
func newMailPipeline(t *testing.T) (mailer.IEmailService, *gochannel.GoChannel, *chanMailer) {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	sink := newChanMailer()
	dispatcher := NewMailDispatcherService(pubSub, constant.TopicOutboundEmails, sink)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, dispatcher.Consume(ctx))

	queued := mailer.NewQueuedEmailService(NewPublisherService(constant.TopicOutboundEmails, pubSub))
	return queued, pubSub, sink
}

func waitForMail(t *testing.T, sink *chanMailer) dto.OutboundEmailMessage {
	t.Helper()
	select {
	case got := <-sink.sent:
		return got
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatched email")
		return dto.OutboundEmailMessage{}
	}
}

func TestMailDispatcherRoutesByKind(t *testing.T) {
	queued, _, sink := newMailPipeline(t)

	require.NoError(t, queued.SendApprovalEmail("ana@example.com", "Ana Lima"))
	got := waitForMail(t, sink)
	assert.Equal(t, "approval", got.Kind)
	assert.Equal(t, "ana@example.com", got.To)
	assert.Equal(t, "Ana Lima", got.FullName)

	require.NoError(t, queued.SendDenialEmail("bob@example.com", "Bob Reyes", "duplicate request"))
	got = waitForMail(t, sink)
	assert.Equal(t, "denial", got.Kind)
	assert.Equal(t, "bob@example.com", got.To)
	assert.Equal(t, "Bob Reyes", got.FullName)
	assert.Equal(t, "duplicate request", got.Reason)

	require.NoError(t, queued.SendResetToken("cara@example.com", "tok-123"))
	got = waitForMail(t, sink)
	assert.Equal(t, "password_reset", got.Kind)
	assert.Equal(t, "cara@example.com", got.To)
	assert.Equal(t, "tok-123", got.Token)
}

// A payload the dispatcher cannot act on must be acked and dropped, never
// redelivered: on this bus a nack would retry forever.
func TestMailDispatcherSkipsBadPayloads(t *testing.T) {
	queued, pubSub, sink := newMailPipeline(t)

	require.NoError(t, pubSub.Publish(constant.TopicOutboundEmails,
		message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	require.NoError(t, pubSub.Publish(constant.TopicOutboundEmails,
		message.NewMessage(watermill.NewUUID(), []byte(`{"kind":"carrier_pigeon","to":"x@example.com"}`))))

	// The bus delivers in order, so this send proves both bad messages
	// were consumed and dropped.
	require.NoError(t, queued.SendApprovalEmail("dora@example.com", "Dora Ivanova"))

	got := waitForMail(t, sink)
	assert.Equal(t, "approval", got.Kind)
	assert.Equal(t, "dora@example.com", got.To)

	select {
	case extra := <-sink.sent:
		t.Fatalf("unexpected extra email dispatched: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}
