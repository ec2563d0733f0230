package contract

import (
	"context"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

type SettingRepository interface {
	// Get returns nil (no error) when the user has no stored settings.
	Get(ctx context.Context, userId uuid.UUID) (*entity.UserSetting, error)
	Upsert(ctx context.Context, setting *entity.UserSetting) error
	Delete(ctx context.Context, userId uuid.UUID) error
}
