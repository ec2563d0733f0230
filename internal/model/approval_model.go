// FILE: internal/model/approval_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserApproval is the registration queue. The partial unique index keeping
// at most one pending row per email lives in the migration post-step
// (sqlite used in tests has no partial index support via tags).
type UserApproval struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId       *uuid.UUID `gorm:"type:uuid;index"`
	Email        string     `gorm:"type:varchar(255);not null;index"`
	FullName     string     `gorm:"type:varchar(255);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Status       string     `gorm:"type:varchar(50);not null;default:'pending';index"`
	RequestedAt  time.Time  `gorm:"not null"`
	ApprovedAt   *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	DenialReason *string    `gorm:"type:text"`
	Notes        *string    `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (UserApproval) TableName() string {
	return "user_approvals"
}
