package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessagePair is one full exchange: the user's message and the assistant's
// reply, stored as a single append-only row. Rows are inserted complete,
// never updated.
type MessagePair struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	SessionId   uuid.UUID
	UserMessage string
	AiResponse  string
	CreatedAt   time.Time
}
