package entity

import (
	"time"

	"github.com/google/uuid"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const DefaultAccentColor = "indigo"

// UserSetting holds per-user UI preferences. Reads fall back to defaults
// when no row exists; writes upsert.
type UserSetting struct {
	UserId      uuid.UUID
	Theme       Theme
	AccentColor string
	UpdatedAt   time.Time
}

func DefaultUserSetting(userId uuid.UUID) *UserSetting {
	return &UserSetting{
		UserId:      userId,
		Theme:       ThemeSystem,
		AccentColor: DefaultAccentColor,
	}
}
