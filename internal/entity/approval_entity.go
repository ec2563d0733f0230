// FILE: internal/entity/approval_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusDenied   ApprovalStatus = "denied"
)

// UserApproval is a registration request. The credential hash is held here
// until an admin approves, at which point the account is provisioned and
// UserId is linked back. At most one pending row may exist per email.
type UserApproval struct {
	Id           uuid.UUID
	UserId       *uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Status       ApprovalStatus
	RequestedAt  time.Time
	ApprovedAt   *time.Time // decision timestamp, set for deny too
	ApprovedBy   *uuid.UUID
	DenialReason *string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApprovalDecision carries the admin's verdict on a pending registration.
type ApprovalDecision struct {
	Email        string
	Approve      bool
	DecidedBy    uuid.UUID
	Notes        *string
	DenialReason *string
}
