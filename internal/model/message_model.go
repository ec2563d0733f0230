// FILE: internal/model/message_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// MessagePair is append-only: one row per exchange, inserted with both
// halves present or not at all. The ON DELETE CASCADE foreign key to
// chat_sessions is added in the migration post-step.
type MessagePair struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserMessage string    `gorm:"type:text;not null"`
	AiResponse  string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (MessagePair) TableName() string {
	return "messages"
}
