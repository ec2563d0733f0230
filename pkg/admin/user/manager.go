package user

import (
	"context"
	"fmt"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	adminEvents "ai-chat-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Manager handles user-related admin operations. Accounts are never created
// here: provisioning happens through the approval flow only.
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
}

// NewManager creates a new user manager
func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
	}
}

// FindAll retrieves users with pagination, optional search and filters
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, req dto.AdminUserListRequest) ([]*entity.User, error) {
	page := req.Page
	limit := req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	// Search takes over the whole query; role/status filters apply to the
	// plain listing only.
	if req.Search != "" {
		return uow.UserRepository().SearchUsers(ctx, req.Search, limit, offset)
	}

	specs := []specification.Specification{
		specification.Pagination{Limit: limit, Offset: offset},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if req.Role != "" {
		specs = append(specs, specification.ByRole{Role: req.Role})
	}
	if req.Status != "" {
		specs = append(specs, specification.FilterBy{Field: "status", Value: req.Status})
	}

	return uow.UserRepository().FindAll(ctx, specs...)
}

// FindOne retrieves a single user by ID
func (m *Manager) FindOne(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	return uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
}

// UpdateStatus blocks or reinstates a user. Blocking also revokes every
// refresh token so the account cannot mint new access tokens; the live
// access token dies at its natural expiry.
func (m *Manager) UpdateStatus(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, status, reason string) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}

	m.logger.Info("ADMIN", "Updated user status", map[string]interface{}{
		"userId": userId.String(),
		"status": status,
	})

	if entity.UserStatus(status) == entity.UserStatusBlocked {
		if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, userId); err != nil {
			return err
		}
		m.publisher.PublishUserBlocked(ctx, userId, user.Email, reason)
	}

	return nil
}

// Delete removes a user account and everything hanging off it. The caller
// owns the transaction; all deletes land or none do.
func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	// 1. Message pairs before sessions: the FK points at sessions.
	if err := uow.MessagePairRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	// 2. Chat sessions
	if _, err := uow.ChatSessionRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	// 3. Settings
	if err := uow.SettingRepository().Delete(ctx, userId); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}

	// 4. Refresh tokens
	if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, userId); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}

	// 5. The account itself (soft delete keeps the email reserved).
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	m.logger.Info("ADMIN", "Deleted User", map[string]interface{}{
		"userId": userId.String(),
	})

	m.publisher.PublishUserDeleted(ctx, userId, user.Email)

	return nil
}
