package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// UpdateTitle sets the title and bumps updated_at.
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	// AdjustMessageCount moves message_count by delta (+1 insert, -1 delete)
	// relative to the stored value and bumps updated_at. The count is never
	// recomputed from the messages table.
	AdjustMessageCount(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAllByUserId hard-deletes every session of the user and reports
	// how many rows went away.
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
