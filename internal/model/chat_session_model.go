package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession has no soft delete: removal is real and drops the session's
// messages with it. MessageCount only moves by +1/-1 relative updates.
type ChatSession struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title        string    `gorm:"type:text;not null;default:'New Chat'"`
	MessageCount int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
