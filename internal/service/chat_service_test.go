package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T) (IChatService, *stubProvider, unitofwork.RepositoryFactory) {
	t.Helper()
	factory, _ := newTestFactory(t)
	provider := &stubProvider{Reply: "Sure, happy to help."}
	svc := NewChatService(factory, provider, memory.NewContextCache(), testAiConfig())
	return svc, provider, factory
}

func sessionById(t *testing.T, factory unitofwork.RepositoryFactory, id uuid.UUID) *entity.ChatSession {
	t.Helper()
	uow := factory.NewUnitOfWork(context.Background())
	sess, err := uow.ChatSessionRepository().FindOne(context.Background(), specification.ByID{ID: id})
	require.NoError(t, err)
	return sess
}

func pairCount(t *testing.T, factory unitofwork.RepositoryFactory, sessionId uuid.UUID) int64 {
	t.Helper()
	uow := factory.NewUnitOfWork(context.Background())
	count, err := uow.MessagePairRepository().Count(context.Background(), specification.BySessionID{SessionID: sessionId})
	require.NoError(t, err)
	return count
}

func TestSendMessageAutoCreatesSession(t *testing.T) {
	svc, provider, factory := newChatService(t)
	userId := uuid.New()

	res, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{
		Message: "What is a goroutine?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sure, happy to help.", res.Message)
	assert.NotEqual(t, uuid.Nil, res.SessionId)
	require.NotNil(t, res.SessionTitle)
	assert.Equal(t, "What is a goroutine?", *res.SessionTitle)

	sess := sessionById(t, factory, res.SessionId)
	require.NotNil(t, sess)
	assert.Equal(t, userId, sess.UserId)
	assert.Equal(t, "What is a goroutine?", sess.Title)
	assert.Equal(t, 1, sess.MessageCount)
	assert.EqualValues(t, 1, pairCount(t, factory, res.SessionId))

	// The provider saw system prompt + the current message, nothing else
	require.Len(t, provider.Calls, 1)
	require.Len(t, provider.Calls[0], 2)
	assert.Equal(t, constant.ChatMessageRoleSystem, provider.Calls[0][0].Role)
	assert.Equal(t, "What is a goroutine?", provider.Calls[0][1].Content)
}

func TestSendMessageEmptyMessage(t *testing.T) {
	svc, provider, _ := newChatService(t)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := svc.SendMessage(context.Background(), uuid.New(), &dto.ChatRequest{Message: msg})
		require.Error(t, err)
		assert.Equal(t, "message cannot be empty", err.Error())
	}
	assert.Empty(t, provider.Calls)
}

func TestSendMessageTooLong(t *testing.T) {
	svc, provider, _ := newChatService(t)

	over := strings.Repeat("a", constant.MaxMessageLength+1)
	_, err := svc.SendMessage(context.Background(), uuid.New(), &dto.ChatRequest{Message: over})
	require.Error(t, err)
	assert.Equal(t, "message exceeds maximum length", err.Error())
	assert.Empty(t, provider.Calls)

	// Exactly at the limit is still accepted
	atLimit := strings.Repeat("b", constant.MaxMessageLength)
	_, err = svc.SendMessage(context.Background(), uuid.New(), &dto.ChatRequest{Message: atLimit})
	require.NoError(t, err)
	require.Len(t, provider.Calls, 1)
}

func TestSendMessageProviderFailure(t *testing.T) {
	svc, provider, factory := newChatService(t)
	userId := uuid.New()

	t.Run("existing session keeps zero rows", func(t *testing.T) {
		created, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{Title: "Planning"})
		require.NoError(t, err)

		provider.Err = errProviderDown
		_, err = svc.SendMessage(context.Background(), userId, &dto.ChatRequest{
			Message:   "hello?",
			SessionId: &created.Id,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "completion failed")

		sess := sessionById(t, factory, created.Id)
		assert.Equal(t, 0, sess.MessageCount)
		assert.EqualValues(t, 0, pairCount(t, factory, created.Id))
	})

	t.Run("auto-created session survives the failure", func(t *testing.T) {
		provider.Err = errProviderDown
		_, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "are you there?"})
		require.Error(t, err)

		// The session was committed before the provider call; only the
		// exchange is missing.
		uow := factory.NewUnitOfWork(context.Background())
		sessions, err := uow.ChatSessionRepository().FindAll(context.Background(),
			specification.UserOwnedBy{UserID: userId},
			specification.FilterBy{Field: "title", Value: "are you there?"},
		)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, 0, sessions[0].MessageCount)
		assert.EqualValues(t, 0, pairCount(t, factory, sessions[0].Id))
	})
}

func TestSendMessageOwnership(t *testing.T) {
	svc, _, _ := newChatService(t)

	owner := uuid.New()
	created, err := svc.CreateSession(context.Background(), owner, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	intruder := uuid.New()
	_, err = svc.SendMessage(context.Background(), intruder, &dto.ChatRequest{
		Message:   "let me in",
		SessionId: &created.Id,
	})
	require.Error(t, err)
	assert.Equal(t, "Session not found or does not belong to current user", err.Error())
}

func TestSendMessageRetitle(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	t.Run("placeholder title is replaced by first exchange", func(t *testing.T) {
		created, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{})
		require.NoError(t, err)
		assert.Equal(t, constant.DefaultSessionTitle, created.Title)

		res, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{
			Message:   "Plan my trip to Osaka",
			SessionId: &created.Id,
		})
		require.NoError(t, err)
		require.NotNil(t, res.SessionTitle)
		assert.Equal(t, "Plan my trip to Osaka", *res.SessionTitle)
		assert.Equal(t, "Plan my trip to Osaka", sessionById(t, factory, created.Id).Title)

		// Second exchange leaves the title alone
		_, err = svc.SendMessage(context.Background(), userId, &dto.ChatRequest{
			Message:   "Make it five days instead",
			SessionId: &created.Id,
		})
		require.NoError(t, err)
		assert.Equal(t, "Plan my trip to Osaka", sessionById(t, factory, created.Id).Title)
	})

	t.Run("custom title is never overwritten", func(t *testing.T) {
		created, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{Title: "Osaka Trip"})
		require.NoError(t, err)

		res, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{
			Message:   "Plan my trip",
			SessionId: &created.Id,
		})
		require.NoError(t, err)
		assert.Nil(t, res.SessionTitle)
		assert.Equal(t, "Osaka Trip", sessionById(t, factory, created.Id).Title)
	})
}

func TestDeriveSessionTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"short message", "Hello", "Hello"},
		{"exactly at limit", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"over limit", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"unicode counts runes not bytes", strings.Repeat("ü", 50), strings.Repeat("ü", 50)},
		{"unicode over limit", strings.Repeat("ü", 60), strings.Repeat("ü", 50) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveSessionTitle(tt.message))
		})
	}
}

func TestSendMessageContextWindow(t *testing.T) {
	svc, provider, _ := newChatService(t)
	userId := uuid.New()

	first, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "msg-0"})
	require.NoError(t, err)
	sessionId := first.SessionId

	for i := 1; i < 8; i++ {
		_, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{
			Message:   "msg-" + string(rune('0'+i)),
			SessionId: &sessionId,
		})
		require.NoError(t, err)
	}

	// Eighth call: 7 prior pairs stored, window capped at 5
	last := provider.Calls[len(provider.Calls)-1]
	require.Len(t, last, 2*constant.ContextWindowPairs+2)

	assert.Equal(t, constant.ChatMessageRoleSystem, last[0].Role)
	// Oldest surviving pair is msg-2 (msg-0 and msg-1 evicted)
	assert.Equal(t, "msg-2", last[1].Content)
	assert.Equal(t, constant.ChatMessageRoleUser, last[1].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, last[2].Role)
	// Current message comes last
	assert.Equal(t, "msg-7", last[len(last)-1].Content)
}

func TestSendMessageColdCacheRebuildsFromStore(t *testing.T) {
	factory, _ := newTestFactory(t)
	provider := &stubProvider{Reply: "ok"}

	warm := NewChatService(factory, provider, memory.NewContextCache(), testAiConfig())
	userId := uuid.New()

	first, err := warm.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "remember me"})
	require.NoError(t, err)

	// Fresh cache, same DB: the window must be rebuilt from stored pairs
	cold := NewChatService(factory, provider, memory.NewContextCache(), testAiConfig())
	_, err = cold.SendMessage(context.Background(), userId, &dto.ChatRequest{
		Message:   "what did I say?",
		SessionId: &first.SessionId,
	})
	require.NoError(t, err)

	last := provider.Calls[len(provider.Calls)-1]
	require.Len(t, last, 4) // system + stored pair + current
	assert.Equal(t, "remember me", last[1].Content)
	assert.Equal(t, "ok", last[2].Content)
}

func TestCreateSession(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	t.Run("blank title falls back to placeholder", func(t *testing.T) {
		res, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{Title: "   "})
		require.NoError(t, err)
		assert.Equal(t, constant.DefaultSessionTitle, res.Title)
		assert.Equal(t, 0, res.MessageCount)
	})

	t.Run("custom title is trimmed and kept", func(t *testing.T) {
		res, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{Title: "  Standup Notes "})
		require.NoError(t, err)
		assert.Equal(t, "Standup Notes", res.Title)
		assert.Equal(t, "Standup Notes", sessionById(t, factory, res.Id).Title)
	})
}

func TestGetSessionsOrderAndLimit(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	// Stagger updated_at explicitly; list order must follow recency
	uow := factory.NewUnitOfWork(context.Background())
	base := time.Now().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		s := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "s",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, uow.ChatSessionRepository().Create(context.Background(), s))
		ids = append(ids, s.Id)
	}

	// Someone else's session must never appear
	other := &entity.ChatSession{Id: uuid.New(), UserId: uuid.New(), Title: "not mine", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, uow.ChatSessionRepository().Create(context.Background(), other))

	all, err := svc.GetSessions(context.Background(), userId, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].Id)
	assert.Equal(t, ids[0], all[2].Id)

	limited, err := svc.GetSessions(context.Background(), userId, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetSessionHistory(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{Title: "history"})
	require.NoError(t, err)

	uow := factory.NewUnitOfWork(context.Background())
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		pair := &entity.MessagePair{
			Id:          uuid.New(),
			UserId:      userId,
			SessionId:   created.Id,
			UserMessage: "q-" + string(rune('0'+i)),
			AiResponse:  "a-" + string(rune('0'+i)),
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, uow.MessagePairRepository().Create(context.Background(), pair))
	}

	history, err := svc.GetSessionHistory(context.Background(), userId, created.Id, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "q-0", history[0].UserMessage)
	assert.Equal(t, "a-2", history[2].AiResponse)

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.GetSessionHistory(context.Background(), userId, uuid.New(), 0)
		require.Error(t, err)
		assert.Equal(t, "Session not found or does not belong to current user", err.Error())
	})

	t.Run("someone else's session", func(t *testing.T) {
		_, err := svc.GetSessionHistory(context.Background(), uuid.New(), created.Id, 0)
		require.Error(t, err)
	})
}

func TestGetChatHistoryAcrossSessions(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	s1, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{Title: "one"})
	require.NoError(t, err)
	s2, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{Title: "two"})
	require.NoError(t, err)

	uow := factory.NewUnitOfWork(context.Background())
	base := time.Now().Add(-time.Hour)
	seed := func(sessionId uuid.UUID, msg string, offset time.Duration) {
		pair := &entity.MessagePair{
			Id:          uuid.New(),
			UserId:      userId,
			SessionId:   sessionId,
			UserMessage: msg,
			AiResponse:  "reply",
			CreatedAt:   base.Add(offset),
		}
		require.NoError(t, uow.MessagePairRepository().Create(context.Background(), pair))
	}
	seed(s1.Id, "first", 0)
	seed(s2.Id, "second", time.Second)
	seed(s1.Id, "third", 2*time.Second)

	all, err := svc.GetChatHistory(context.Background(), userId, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].UserMessage)
	assert.Equal(t, "third", all[2].UserMessage)

	only1, err := svc.GetChatHistory(context.Background(), userId, &s1.Id, 0)
	require.NoError(t, err)
	require.Len(t, only1, 2)
	assert.Equal(t, "first", only1[0].UserMessage)
	assert.Equal(t, "third", only1[1].UserMessage)

	t.Run("scoped to someone else's session", func(t *testing.T) {
		_, err := svc.GetChatHistory(context.Background(), uuid.New(), &s1.Id, 0)
		require.Error(t, err)
		assert.Equal(t, "Session not found or does not belong to current user", err.Error())
	})
}

func TestDeleteSession(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	res, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "doomed"})
	require.NoError(t, err)

	t.Run("wrong owner cannot delete", func(t *testing.T) {
		err := svc.DeleteSession(context.Background(), uuid.New(), res.SessionId)
		require.Error(t, err)
		assert.NotNil(t, sessionById(t, factory, res.SessionId))
	})

	t.Run("owner delete removes session and messages", func(t *testing.T) {
		require.NoError(t, svc.DeleteSession(context.Background(), userId, res.SessionId))
		assert.Nil(t, sessionById(t, factory, res.SessionId))
		assert.EqualValues(t, 0, pairCount(t, factory, res.SessionId))
	})

	t.Run("deleting twice is an error", func(t *testing.T) {
		err := svc.DeleteSession(context.Background(), userId, res.SessionId)
		require.Error(t, err)
		assert.Equal(t, "Session not found or does not belong to current user", err.Error())
	})
}

func TestDeleteAllSessions(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	first, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "two"})
	require.NoError(t, err)

	// A bystander's data must survive the wipe
	bystander := uuid.New()
	kept, err := svc.SendMessage(context.Background(), bystander, &dto.ChatRequest{Message: "keep me"})
	require.NoError(t, err)

	res, err := svc.DeleteAllSessions(context.Background(), userId)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.DeletedCount)

	sessions, err := svc.GetSessions(context.Background(), userId, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Nil(t, sessionById(t, factory, first.SessionId))

	assert.NotNil(t, sessionById(t, factory, kept.SessionId))
	assert.EqualValues(t, 1, pairCount(t, factory, kept.SessionId))

	t.Run("empty wipe reports zero", func(t *testing.T) {
		res, err := svc.DeleteAllSessions(context.Background(), userId)
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.DeletedCount)
	})
}

func TestDeleteMessagePair(t *testing.T) {
	svc, _, factory := newChatService(t)
	userId := uuid.New()

	first, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "one"})
	require.NoError(t, err)
	sessionId := first.SessionId
	_, err = svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "two", SessionId: &sessionId})
	require.NoError(t, err)

	uow := factory.NewUnitOfWork(context.Background())
	pairs, err := uow.MessagePairRepository().FindAll(context.Background(), specification.BySessionID{SessionID: sessionId})
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	require.NoError(t, svc.DeleteMessagePair(context.Background(), userId, sessionId, pairs[0].Id))

	// Counter walks back by one, the other exchange stays
	assert.Equal(t, 1, sessionById(t, factory, sessionId).MessageCount)
	assert.EqualValues(t, 1, pairCount(t, factory, sessionId))

	t.Run("message from another session", func(t *testing.T) {
		other, err := svc.SendMessage(context.Background(), userId, &dto.ChatRequest{Message: "elsewhere"})
		require.NoError(t, err)

		err = svc.DeleteMessagePair(context.Background(), userId, other.SessionId, pairs[1].Id)
		require.Error(t, err)
		assert.Equal(t, "Message not found in this session", err.Error())
	})

	t.Run("wrong owner", func(t *testing.T) {
		err := svc.DeleteMessagePair(context.Background(), uuid.New(), sessionId, pairs[1].Id)
		require.Error(t, err)
		assert.Equal(t, "Session not found or does not belong to current user", err.Error())
	})
}
