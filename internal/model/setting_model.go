package model

import (
	"time"

	"github.com/google/uuid"
)

type UserSetting struct {
	UserId      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Theme       string    `gorm:"type:varchar(20);not null;default:'system'"`
	AccentColor string    `gorm:"type:varchar(50);not null;default:'indigo'"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (UserSetting) TableName() string {
	return "user_settings"
}
