// FILE: internal/service/user_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error

	// Settings
	GetSettings(ctx context.Context, userId uuid.UUID) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, userId uuid.UUID, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)

	DeleteAccount(ctx context.Context, userId uuid.UUID, req dto.DeleteAccountRequest) error
}

type userService struct {
	uowFactory       unitofwork.RepositoryFactory
	eventPublisher   *pktNats.Publisher
	notificationRepo repository.NotificationRepository
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, notificationRepo repository.NotificationRepository) IUserService {
	return &userService{
		uowFactory:       uowFactory,
		eventPublisher:   eventPublisher,
		notificationRepo: notificationRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	repo := uow.UserRepository()
	user, err := repo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	user.FullName = req.FullName
	return repo.Update(ctx, user)
}

// GetSettings returns the stored preferences, or defaults when the user has
// never saved any. No row is created on read.
func (s *userService) GetSettings(ctx context.Context, userId uuid.UUID) (*dto.SettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	setting, err := uow.SettingRepository().Get(ctx, userId)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		setting = entity.DefaultUserSetting(userId)
	}

	return &dto.SettingsResponse{
		Theme:       string(setting.Theme),
		AccentColor: setting.AccentColor,
		UpdatedAt:   setting.UpdatedAt,
	}, nil
}

// UpdateSettings merges the provided fields over the current (or default)
// values and upserts the row.
func (s *userService) UpdateSettings(ctx context.Context, userId uuid.UUID, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	setting, err := uow.SettingRepository().Get(ctx, userId)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		setting = entity.DefaultUserSetting(userId)
	}

	if req.Theme != "" {
		setting.Theme = entity.Theme(req.Theme)
	}
	if req.AccentColor != "" {
		setting.AccentColor = req.AccentColor
	}
	setting.UpdatedAt = time.Now()

	if err := uow.SettingRepository().Upsert(ctx, setting); err != nil {
		return nil, err
	}

	return &dto.SettingsResponse{
		Theme:       string(setting.Theme),
		AccentColor: setting.AccentColor,
		UpdatedAt:   setting.UpdatedAt,
	}, nil
}

// DeleteAccount removes the account after a password confirmation. The user
// row is soft-deleted (the email stays reserved); chat data is gone for good.
func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID, req dto.DeleteAccountRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	// A hijacked session must not be enough to destroy the account.
	if user.PasswordHash == nil {
		return fmt.Errorf("user registered via OAuth")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return fmt.Errorf("invalid credentials")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

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

	if err := uow.Commit(); err != nil {
		return err
	}

	// Notifications live outside the unit of work; clean them up best-effort.
	if err := s.notificationRepo.DeleteAllByUserID(ctx, userId); err != nil {
		fmt.Printf("[WARN] Failed to delete notifications for removed user: %v\n", err)
	}

	// Emit USER_DELETED Event
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "USER_DELETED",
			Data: map[string]interface{}{
				"user_id":     userId,
				"email":       user.Email,
				"occurred_at": time.Now(),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_DELETED event: %v\n", err)
		}
	}

	return nil
}
