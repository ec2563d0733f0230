package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessagePairRepository is append-only on the write side: pairs are created
// whole and never updated. Deletes exist for session cascade and explicit
// pair removal.
type MessagePairRepository interface {
	Create(ctx context.Context, pair *entity.MessagePair) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MessagePair, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessagePair, error)
	// FindRecentBySession returns the newest limit pairs in chronological
	// order, for the relay context window.
	FindRecentBySession(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.MessagePair, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	GetMessageGrowth(ctx context.Context, days int) ([]map[string]interface{}, error)
}
