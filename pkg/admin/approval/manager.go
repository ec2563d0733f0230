package approval

import (
	"context"
	"fmt"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	adminEvents "ai-chat-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Manager handles registration approval decisions. A decision is terminal:
// once a row leaves pending it can never be decided again, and approval is
// the only path that creates a user account from a registration.
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
}

// NewManager creates a new approval manager
func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
	}
}

// FindAll retrieves approval requests, optionally filtered by status
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, status string, page, limit int) ([]*entity.UserApproval, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	specs := []specification.Specification{
		specification.Pagination{Limit: limit, Offset: offset},
		specification.OrderBy{Field: "requested_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.ByApprovalStatus{Status: status})
	}

	return uow.ApprovalRepository().FindAll(ctx, specs...)
}

// Decide settles a pending registration. The caller owns the transaction.
// On approve the account is provisioned in the same transaction, reusing
// the credential hash captured at registration time. Returns the approval
// in its post-decision state and, for approvals, the new user.
func (m *Manager) Decide(ctx context.Context, uow unitofwork.UnitOfWork, req dto.DecideApprovalRequest, decidedBy uuid.UUID) (*entity.UserApproval, *entity.User, error) {
	approval, err := uow.ApprovalRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, nil, err
	}
	if approval == nil {
		return nil, nil, fmt.Errorf("approval request not found")
	}
	if approval.Status != entity.ApprovalStatusPending {
		return nil, nil, fmt.Errorf("approval request already processed")
	}

	approve := req.Decision == "approve"
	decidedAt := time.Now()

	decision := &entity.ApprovalDecision{
		Email:     req.Email,
		Approve:   approve,
		DecidedBy: decidedBy,
	}
	if req.Notes != "" {
		decision.Notes = &req.Notes
	}
	if !approve && req.DenialReason != "" {
		decision.DenialReason = &req.DenialReason
	}

	// The conditional update is the arbiter: zero rows means another admin
	// settled this registration between our read and now.
	rows, err := uow.ApprovalRepository().Decide(ctx, decision, decidedAt)
	if err != nil {
		return nil, nil, err
	}
	if rows == 0 {
		return nil, nil, fmt.Errorf("approval request already processed")
	}

	approval.ApprovedAt = &decidedAt
	approval.ApprovedBy = &decidedBy
	approval.Notes = decision.Notes
	approval.DenialReason = decision.DenialReason

	if !approve {
		approval.Status = entity.ApprovalStatusDenied

		m.logger.Info("ADMIN", "Denied registration", map[string]interface{}{
			"email": approval.Email,
		})
		m.publisher.PublishRegistrationDenied(ctx, approval.Email, approval.FullName, req.DenialReason, decidedBy)

		return approval, nil, nil
	}

	// Provision the account from the approval row.
	hash := approval.PasswordHash
	user := &entity.User{
		Id:           uuid.New(),
		Email:        approval.Email,
		FullName:     approval.FullName,
		PasswordHash: &hash,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    decidedAt,
		UpdatedAt:    decidedAt,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, nil, err
	}
	if err := uow.ApprovalRepository().LinkUser(ctx, approval.Id, user.Id); err != nil {
		return nil, nil, err
	}

	approval.Status = entity.ApprovalStatusApproved
	approval.UserId = &user.Id

	m.logger.Info("ADMIN", "Approved registration", map[string]interface{}{
		"email":  approval.Email,
		"userId": user.Id.String(),
	})
	m.publisher.PublishRegistrationApproved(ctx, user.Id, approval.Email, approval.FullName, decidedBy)

	return approval, user, nil
}
