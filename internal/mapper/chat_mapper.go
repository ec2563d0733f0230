package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	return &model.ChatSession{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *ChatMapper) ChatSessionsToEntities(sessions []*model.ChatSession) []*entity.ChatSession {
	entities := make([]*entity.ChatSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ChatSessionToEntity(s)
	}
	return entities
}

// Message Pair Mappers

func (m *ChatMapper) MessagePairToEntity(p *model.MessagePair) *entity.MessagePair {
	if p == nil {
		return nil
	}
	return &entity.MessagePair{
		Id:          p.Id,
		UserId:      p.UserId,
		SessionId:   p.SessionId,
		UserMessage: p.UserMessage,
		AiResponse:  p.AiResponse,
		CreatedAt:   p.CreatedAt,
	}
}

func (m *ChatMapper) MessagePairToModel(p *entity.MessagePair) *model.MessagePair {
	if p == nil {
		return nil
	}
	return &model.MessagePair{
		Id:          p.Id,
		UserId:      p.UserId,
		SessionId:   p.SessionId,
		UserMessage: p.UserMessage,
		AiResponse:  p.AiResponse,
		CreatedAt:   p.CreatedAt,
	}
}

func (m *ChatMapper) MessagePairsToEntities(pairs []*model.MessagePair) []*entity.MessagePair {
	entities := make([]*entity.MessagePair, len(pairs))
	for i, p := range pairs {
		entities[i] = m.MessagePairToEntity(p)
	}
	return entities
}
