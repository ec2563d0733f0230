// FILE: internal/dto/chat_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
	// SessionId is optional; when nil the relay creates a fresh session
	// titled from the message itself.
	SessionId *uuid.UUID `json:"session_id"`
}

type ChatResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	SessionId uuid.UUID `json:"session_id"`
	// SessionTitle is set only when this exchange renamed the session.
	SessionTitle *string `json:"session_title,omitempty"`
}

type SessionResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}

type ChatHistoryResponse struct {
	Id          uuid.UUID `json:"id"`
	UserMessage string    `json:"user_message"`
	AiResponse  string    `json:"ai_response"`
	CreatedAt   time.Time `json:"created_at"`
}

type DeleteAllSessionsResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
