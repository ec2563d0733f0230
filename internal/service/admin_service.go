package service

import (
	"context"
	"fmt"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/admin/approval"
	"ai-chat-be/pkg/admin/dashboard"
	"ai-chat-be/pkg/admin/mapper"
	"ai-chat-be/pkg/admin/user"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	GetUserGrowth(ctx context.Context, days int) ([]*dto.GrowthStats, error)
	GetMessageGrowth(ctx context.Context, days int) ([]*dto.GrowthStats, error)

	// User Management
	GetAllUsers(ctx context.Context, req dto.AdminUserListRequest) ([]*dto.UserListResponse, error)
	GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, req dto.UpdateUserStatusRequest) error
	DeleteUser(ctx context.Context, userId uuid.UUID) error

	// Registration Approvals
	GetApprovals(ctx context.Context, status string, page, limit int) ([]*dto.ApprovalResponse, error)
	DecideApproval(ctx context.Context, req dto.DecideApprovalRequest, decidedBy uuid.UUID) (*dto.ApprovalResponse, error)

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	// Domain Components
	userManager         *user.Manager
	approvalManager     *approval.Manager
	dashboardAggregator *dashboard.Aggregator

	emailService     mailer.IEmailService
	notificationRepo repository.NotificationRepository
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	userManager *user.Manager,
	approvalManager *approval.Manager,
	dashboardAggregator *dashboard.Aggregator,
	emailService mailer.IEmailService,
	notificationRepo repository.NotificationRepository,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		userManager:         userManager,
		approvalManager:     approvalManager,
		dashboardAggregator: dashboardAggregator,
		emailService:        emailService,
		notificationRepo:    notificationRepo,
	}
}

// ============================================================================
// Dashboard & Stats
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

func (s *adminService) GetUserGrowth(ctx context.Context, days int) ([]*dto.GrowthStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetUserGrowth(ctx, uow, days)
}

func (s *adminService) GetMessageGrowth(ctx context.Context, days int) ([]*dto.GrowthStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetMessageGrowth(ctx, uow, days)
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) GetAllUsers(ctx context.Context, req dto.AdminUserListRequest) ([]*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := s.userManager.FindAll(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	return mapper.UsersToListResponse(users), nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.userManager.FindOne(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return mapper.UserToProfileResponse(user), nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, req dto.UpdateUserStatusRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Status change and token revocation land together.
	if err := s.userManager.UpdateStatus(ctx, uow, userId, req.Status, req.Reason); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *adminService) DeleteUser(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.userManager.Delete(ctx, uow, userId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// Notifications live outside the unit of work; clean them up best-effort.
	if err := s.notificationRepo.DeleteAllByUserID(ctx, userId); err != nil {
		s.logger.Warn("ADMIN", "Failed to delete notifications for removed user", map[string]interface{}{
			"userId": userId.String(),
			"error":  err.Error(),
		})
	}

	return nil
}

// ============================================================================
// Registration Approvals
// ============================================================================

func (s *adminService) GetApprovals(ctx context.Context, status string, page, limit int) ([]*dto.ApprovalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	approvals, err := s.approvalManager.FindAll(ctx, uow, status, page, limit)
	if err != nil {
		return nil, err
	}
	return mapper.ApprovalsToResponse(approvals), nil
}

func (s *adminService) DecideApproval(ctx context.Context, req dto.DecideApprovalRequest, decidedBy uuid.UUID) (*dto.ApprovalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Decision and provisioning are one transaction: an approved row without
	// an account (or the reverse) must be impossible.
	decided, _, err := s.approvalManager.Decide(ctx, uow, req, decidedBy)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Queue the decision email only after the decision is durable.
	if req.Decision == "approve" {
		if err := s.emailService.SendApprovalEmail(decided.Email, decided.FullName); err != nil {
			s.logger.Error("ADMIN", "Failed to queue approval email", map[string]interface{}{
				"email": decided.Email,
				"error": err.Error(),
			})
		}
	} else {
		if err := s.emailService.SendDenialEmail(decided.Email, decided.FullName, req.DenialReason); err != nil {
			s.logger.Error("ADMIN", "Failed to queue denial email", map[string]interface{}{
				"email": decided.Email,
				"error": err.Error(),
			})
		}
	}

	return mapper.ApprovalToResponse(decided), nil
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, error) {
	return s.dashboardAggregator.GetSystemLogs(ctx, s.logger, page, limit, level, module)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	return s.dashboardAggregator.GetLogDetail(ctx, s.logger, logId)
}
