// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/store"

	"github.com/google/uuid"
)

// IChatService defines the chat relay and session surface
type IChatService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, request *dto.ChatRequest) (*dto.ChatResponse, error)
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSessions(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.SessionResponse, error)
	GetSessionHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit int) ([]*dto.ChatHistoryResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, limit int) ([]*dto.ChatHistoryResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	DeleteAllSessions(ctx context.Context, userId uuid.UUID) (*dto.DeleteAllSessionsResponse, error)
	DeleteMessagePair(ctx context.Context, userId uuid.UUID, sessionId, messageId uuid.UUID) error
}

// chatService relays messages to the completion provider and keeps the
// session bookkeeping (denormalized counters, titles, context cache) honest.
type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	llmProvider  llm.LLMProvider
	contextCache *memory.ContextCache
	aiConfig     config.AIConfig
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	contextCache *memory.ContextCache,
	aiConfig config.AIConfig,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		llmProvider:  llmProvider,
		contextCache: contextCache,
		aiConfig:     aiConfig,
	}
}

// deriveSessionTitle makes a title out of the first message: first 50 chars,
// "..." appended when truncated.
func deriveSessionTitle(message string) string {
	runes := []rune(message)
	if len(runes) > constant.SessionTitleMaxLength {
		return string(runes[:constant.SessionTitleMaxLength]) + "..."
	}
	return message
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

// SendMessage is the relay: resolve session, assemble context, one provider
// call, then persist the exchange. A provider failure leaves zero new rows.
func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if strings.TrimSpace(request.Message) == "" {
		return nil, errors.New("message cannot be empty")
	}
	if utf8.RuneCountInString(request.Message) > constant.MaxMessageLength {
		return nil, errors.New("message exceeds maximum length")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// 1. Resolve the session. An auto-created session is committed before the
	// provider call, so an upstream failure cannot take it down with it.
	var chatSession *entity.ChatSession
	var sessionTitle *string

	if request.SessionId != nil {
		found, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: *request.SessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, errors.New("Session not found or does not belong to current user")
		}
		chatSession = found
	} else {
		now := time.Now()
		title := deriveSessionTitle(request.Message)
		chatSession = &entity.ChatSession{
			Id:           uuid.New(),
			UserId:       userId,
			Title:        title,
			MessageCount: 0,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uow.ChatSessionRepository().Create(ctx, chatSession); err != nil {
			return nil, err
		}
		sessionTitle = &title
	}

	// 2. Assemble the upstream context (cache when warm, DB when cold)
	window, err := cs.loadContextWindow(ctx, uow, chatSession)
	if err != nil {
		return nil, err
	}
	prompt := cs.buildPrompt(window, request.Message)

	// 3. One provider call. No retry; the error goes straight back up.
	reply, err := cs.llmProvider.Chat(ctx, prompt,
		llm.WithMaxTokens(cs.aiConfig.MaxTokens),
		llm.WithTemperature(cs.aiConfig.Temperature),
		llm.WithTopP(cs.aiConfig.TopP),
		llm.WithFrequencyPenalty(cs.aiConfig.FrequencyPenalty),
		llm.WithPresencePenalty(cs.aiConfig.PresencePenalty),
	)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	now := time.Now()
	pair := &entity.MessagePair{
		Id:          uuid.New(),
		UserId:      userId,
		SessionId:   chatSession.Id,
		UserMessage: request.Message,
		AiResponse:  reply,
		CreatedAt:   now,
	}

	// A manually created session keeps its placeholder title until the first
	// exchange lands; the pre-insert count decides, never a recount.
	retitle := chatSession.MessageCount == 0 && chatSession.Title == constant.DefaultSessionTitle

	// 4. Pair insert, counter bump and retitle commit or fail together
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MessagePairRepository().Create(ctx, pair); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().AdjustMessageCount(ctx, chatSession.Id, 1); err != nil {
		return nil, err
	}
	if retitle {
		title := deriveSessionTitle(request.Message)
		if err := uow.ChatSessionRepository().UpdateTitle(ctx, chatSession.Id, title); err != nil {
			return nil, err
		}
		sessionTitle = &title
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 5. Write-through: the cached window gains the new pair
	window.Append(store.Pair{UserMessage: pair.UserMessage, AiResponse: pair.AiResponse})
	cs.contextCache.Save(window)

	return &dto.ChatResponse{
		Message:      reply,
		Timestamp:    pair.CreatedAt,
		SessionId:    chatSession.Id,
		SessionTitle: sessionTitle,
	}, nil
}

// loadContextWindow returns the session's replay buffer, rebuilding it from
// the newest stored pairs on a cache miss.
func (cs *chatService) loadContextWindow(ctx context.Context, uow unitofwork.UnitOfWork, chatSession *entity.ChatSession) (*store.ContextWindow, error) {
	if window, found := cs.contextCache.Get(chatSession.Id.String()); found {
		return window, nil
	}

	recent, err := uow.MessagePairRepository().FindRecentBySession(ctx, chatSession.Id, constant.ContextWindowPairs)
	if err != nil {
		return nil, err
	}

	window := store.NewContextWindow(chatSession.Id.String(), chatSession.UserId.String(), constant.ContextWindowPairs)
	for _, pair := range recent {
		window.Append(store.Pair{UserMessage: pair.UserMessage, AiResponse: pair.AiResponse})
	}

	cs.contextCache.Save(window)
	return window, nil
}

// buildPrompt flattens the window into provider turns: system prompt, stored
// pairs oldest-first as user/assistant, then the current message.
func (cs *chatService) buildPrompt(window *store.ContextWindow, currentMessage string) []llm.Message {
	pairs := window.Snapshot()
	messages := make([]llm.Message, 0, 2*len(pairs)+2)

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: cs.aiConfig.SystemPrompt,
	})

	for _, pair := range pairs {
		messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: pair.UserMessage})
		messages = append(messages, llm.Message{Role: constant.ChatMessageRoleAssistant, Content: pair.AiResponse})
	}

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: currentMessage,
	})

	return messages
}

// CreateSession creates an empty session; the title defaults to the
// placeholder that the first exchange later replaces.
func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = constant.DefaultSessionTitle
	}

	chatSession := entity.ChatSession{
		Id:           uuid.New(),
		UserId:       userId,
		Title:        title,
		MessageCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}

	return &dto.SessionResponse{
		Id:           chatSession.Id,
		Title:        chatSession.Title,
		MessageCount: chatSession.MessageCount,
		CreatedAt:    chatSession.CreatedAt,
		UpdatedAt:    chatSession.UpdatedAt,
	}, nil
}

// GetSessions lists the caller's sessions, most recently active first.
func (cs *chatService) GetSessions(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	limit = clampLimit(limit, constant.SessionListDefaultLimit, constant.SessionListMaxLimit)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SessionResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.SessionResponse{
			Id:           s.Id,
			Title:        s.Title,
			MessageCount: s.MessageCount,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}

	return response, nil
}

// GetSessionHistory returns one session's exchanges oldest-first.
func (cs *chatService) GetSessionHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit int) ([]*dto.ChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New("Session not found or does not belong to current user")
	}

	limit = clampLimit(limit, constant.SessionListDefaultLimit, constant.SessionListMaxLimit)

	pairs, err := uow.MessagePairRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	return mapHistory(pairs), nil
}

// GetChatHistory returns the caller's exchanges across all sessions, or one
// session's when session_id is given.
func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, limit int) ([]*dto.ChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	limit = clampLimit(limit, constant.HistoryDefaultLimit, constant.HistoryMaxLimit)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: 0},
	}

	if sessionId != nil {
		sess, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: *sessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, errors.New("Session not found or does not belong to current user")
		}
		specs = append(specs, specification.BySessionID{SessionID: *sessionId})
	}

	pairs, err := uow.MessagePairRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	return mapHistory(pairs), nil
}

func mapHistory(pairs []*entity.MessagePair) []*dto.ChatHistoryResponse {
	resp := make([]*dto.ChatHistoryResponse, 0, len(pairs))
	for _, p := range pairs {
		resp = append(resp, &dto.ChatHistoryResponse{
			Id:          p.Id,
			UserMessage: p.UserMessage,
			AiResponse:  p.AiResponse,
			CreatedAt:   p.CreatedAt,
		})
	}
	return resp
}

// DeleteSession removes a session and its messages
func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.New("Session not found or does not belong to current user")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessagePairRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	cs.contextCache.Delete(sessionId.String())
	return nil
}

// DeleteAllSessions wipes the caller's chat data and reports how many
// sessions went away. Zero is a success, not an error.
func (cs *chatService) DeleteAllSessions(ctx context.Context, userId uuid.UUID) (*dto.DeleteAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// Count captured before deleting; the ids are also what the cache needs
	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	deletedCount := int64(len(sessions))
	if deletedCount == 0 {
		return &dto.DeleteAllSessionsResponse{DeletedCount: 0}, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MessagePairRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return nil, err
	}
	if _, err := uow.ChatSessionRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	for _, s := range sessions {
		cs.contextCache.Delete(s.Id.String())
	}

	return &dto.DeleteAllSessionsResponse{DeletedCount: deletedCount}, nil
}

// DeleteMessagePair removes one exchange and walks the counter back by one.
func (cs *chatService) DeleteMessagePair(ctx context.Context, userId uuid.UUID, sessionId, messageId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.New("Session not found or does not belong to current user")
	}

	pair, err := uow.MessagePairRepository().FindOne(ctx,
		specification.ByID{ID: messageId},
		specification.BySessionID{SessionID: sessionId},
	)
	if err != nil {
		return err
	}
	if pair == nil {
		return errors.New("Message not found in this session")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessagePairRepository().Delete(ctx, messageId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().AdjustMessageCount(ctx, sessionId, -1); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// The window is rebuilt from the DB on the next relay
	cs.contextCache.Delete(sessionId.String())
	return nil
}
