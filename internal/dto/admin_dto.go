// FILE: internal/dto/admin_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- User Management ---

type AdminUserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Role   string `query:"role"`
	Status string `query:"status"`
}

type UserListResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
	Reason string `json:"reason,omitempty"`
}

// --- Registration Approvals ---

type DecideApprovalRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Decision     string `json:"decision" validate:"required,oneof=approve deny"`
	Notes        string `json:"notes,omitempty"`
	DenialReason string `json:"denial_reason,omitempty"`
}

type ApprovalResponse struct {
	Id           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Status       string     `json:"status"`
	RequestedAt  time.Time  `json:"requested_at"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ApprovedBy   *uuid.UUID `json:"approved_by,omitempty"`
	DenialReason *string    `json:"denial_reason,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// --- Dashboard ---

type DashboardStatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	ActiveUsers      int64 `json:"active_users"`
	BlockedUsers     int64 `json:"blocked_users"`
	PendingApprovals int64 `json:"pending_approvals"`
	TotalSessions    int64 `json:"total_sessions"`
	TotalMessages    int64 `json:"total_messages"`
}

// --- Graph DTOs ---

type GrowthStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// --- System Log DTOs ---

// Note: LogListResponse uses string for Id because log IDs are MD5 hashes, not UUIDs

type LogListResponse struct {
	Id        string    `json:"id"` // MD5 hash, not UUID
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
