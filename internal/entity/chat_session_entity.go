package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession groups one conversation. MessageCount is denormalized: it is
// bumped alongside every pair insert/delete, never recomputed from the
// messages table. Deleting a session takes its messages with it.
type ChatSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
