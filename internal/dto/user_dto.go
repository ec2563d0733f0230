// FILE: internal/dto/user_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
}

// --- Preferences ---

type SettingsResponse struct {
	Theme       string    `json:"theme"`
	AccentColor string    `json:"accent_color"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpdateSettingsRequest struct {
	Theme       string `json:"theme" validate:"omitempty,oneof=light dark system"`
	AccentColor string `json:"accent_color" validate:"omitempty,max=32"`
}

// DeleteAccountRequest requires the current password so a hijacked session
// cannot wipe the account silently.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}
