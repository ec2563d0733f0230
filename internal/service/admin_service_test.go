package service

import (
	"context"
	"testing"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository"
	"ai-chat-be/internal/repository/implementation"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/admin/approval"
	"ai-chat-be/pkg/admin/dashboard"
	adminEvents "ai-chat-be/pkg/admin/events"
	"ai-chat-be/pkg/admin/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAdminService(t *testing.T) (IAdminService, *recordingMailer, unitofwork.RepositoryFactory, repository.NotificationRepository) {
	t.Helper()

	factory, db := newTestFactory(t)
	testLogger := newTestLogger(t)
	publisher := adminEvents.NewNatsPublisher(nil, testLogger)
	mail := &recordingMailer{}
	notifRepo := implementation.NewNotificationRepository(db)

	svc := NewAdminService(
		factory,
		testLogger,
		user.NewManager(testLogger, publisher),
		approval.NewManager(testLogger, publisher),
		dashboard.NewAggregator(testLogger),
		mail,
		notifRepo,
	)
	return svc, mail, factory, notifRepo
}

func findUserByEmail(t *testing.T, factory unitofwork.RepositoryFactory, email string) *entity.User {
	t.Helper()
	uow := factory.NewUnitOfWork(context.Background())
	found, err := uow.UserRepository().FindOne(context.Background(), specification.ByEmail{Email: email})
	require.NoError(t, err)
	return found
}

func TestDecideApprovalProvisionsAccount(t *testing.T) {
	svc, mail, factory, _ := newAdminService(t)
	pending := seedPendingApproval(t, factory, "applicant@example.com", "hunter2secret")
	adminId := uuid.New()

	res, err := svc.DecideApproval(context.Background(), dto.DecideApprovalRequest{
		Email:    pending.Email,
		Decision: "approve",
		Notes:    "looks legitimate",
	}, adminId)
	require.NoError(t, err)

	assert.Equal(t, "approved", res.Status)
	require.NotNil(t, res.ApprovedBy)
	assert.Equal(t, adminId, *res.ApprovedBy)
	require.NotNil(t, res.Notes)
	assert.Equal(t, "looks legitimate", *res.Notes)

	// The account is provisioned from the hash captured at registration
	account := findUserByEmail(t, factory, pending.Email)
	require.NotNil(t, account)
	assert.Equal(t, entity.UserRoleUser, account.Role)
	assert.Equal(t, entity.UserStatusActive, account.Status)
	require.NotNil(t, account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte("hunter2secret")))

	// The approval row is linked back to the new account
	uow := factory.NewUnitOfWork(context.Background())
	decided, err := uow.ApprovalRepository().FindOne(context.Background(), specification.ByEmail{Email: pending.Email})
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalStatusApproved, decided.Status)
	require.NotNil(t, decided.UserId)
	assert.Equal(t, account.Id, *decided.UserId)

	assert.Equal(t, []string{pending.Email}, mail.Approvals)
	assert.Empty(t, mail.Denials)
}

func TestDecideApprovalDeny(t *testing.T) {
	svc, mail, factory, _ := newAdminService(t)
	pending := seedPendingApproval(t, factory, "spammer@example.com", "whatever1")

	res, err := svc.DecideApproval(context.Background(), dto.DecideApprovalRequest{
		Email:        pending.Email,
		Decision:     "deny",
		DenialReason: "suspected spam account",
	}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "denied", res.Status)
	require.NotNil(t, res.DenialReason)
	assert.Equal(t, "suspected spam account", *res.DenialReason)

	// Denial provisions nothing
	assert.Nil(t, findUserByEmail(t, factory, pending.Email))
	assert.Equal(t, []string{pending.Email}, mail.Denials)
	assert.Empty(t, mail.Approvals)
}

func TestDecideApprovalIsTerminal(t *testing.T) {
	svc, mail, factory, _ := newAdminService(t)
	pending := seedPendingApproval(t, factory, "onceonly@example.com", "password1")

	_, err := svc.DecideApproval(context.Background(), dto.DecideApprovalRequest{
		Email:    pending.Email,
		Decision: "approve",
	}, uuid.New())
	require.NoError(t, err)

	t.Run("second decision bounces", func(t *testing.T) {
		_, err := svc.DecideApproval(context.Background(), dto.DecideApprovalRequest{
			Email:    pending.Email,
			Decision: "deny",
		}, uuid.New())
		require.Error(t, err)
		assert.Equal(t, "approval request already processed", err.Error())
		assert.Len(t, mail.Approvals, 1)
		assert.Empty(t, mail.Denials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.DecideApproval(context.Background(), dto.DecideApprovalRequest{
			Email:    "ghost@example.com",
			Decision: "approve",
		}, uuid.New())
		require.Error(t, err)
		assert.Equal(t, "approval request not found", err.Error())
	})
}

func TestGetApprovalsFilter(t *testing.T) {
	svc, _, factory, _ := newAdminService(t)

	// Stagger requested_at so the newest-first order is deterministic
	uow := factory.NewUnitOfWork(context.Background())
	base := time.Now().Add(-time.Hour)
	emails := []string{"first@example.com", "second@example.com", "third@example.com"}
	for i, email := range emails {
		row := &entity.UserApproval{
			Id:           uuid.New(),
			Email:        email,
			FullName:     "Applicant",
			PasswordHash: "not-a-real-hash",
			Status:       entity.ApprovalStatusPending,
			RequestedAt:  base.Add(time.Duration(i) * time.Minute),
			CreatedAt:    base,
			UpdatedAt:    base,
		}
		require.NoError(t, uow.ApprovalRepository().Create(context.Background(), row))
	}

	_, err := svc.DecideApproval(context.Background(), dto.DecideApprovalRequest{
		Email:    "first@example.com",
		Decision: "deny",
	}, uuid.New())
	require.NoError(t, err)

	pendingOnly, err := svc.GetApprovals(context.Background(), "pending", 1, 10)
	require.NoError(t, err)
	require.Len(t, pendingOnly, 2)
	assert.Equal(t, "third@example.com", pendingOnly[0].Email)
	assert.Equal(t, "second@example.com", pendingOnly[1].Email)

	all, err := svc.GetApprovals(context.Background(), "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	denied, err := svc.GetApprovals(context.Background(), "denied", 1, 10)
	require.NoError(t, err)
	require.Len(t, denied, 1)
	assert.Equal(t, "first@example.com", denied[0].Email)
}

func TestGetDashboardStats(t *testing.T) {
	svc, _, factory, _ := newAdminService(t)

	active := seedUser(t, factory, "active@example.com", "password1", entity.UserRoleUser)
	blocked := seedUser(t, factory, "blocked@example.com", "password1", entity.UserRoleUser)
	require.NoError(t, svc.UpdateUserStatus(context.Background(), blocked.Id, dto.UpdateUserStatusRequest{
		Status: "blocked",
		Reason: "terms violation",
	}))

	seedPendingApproval(t, factory, "waiting@example.com", "password1")

	uow := factory.NewUnitOfWork(context.Background())
	sess := &entity.ChatSession{Id: uuid.New(), UserId: active.Id, Title: "stats", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, uow.ChatSessionRepository().Create(context.Background(), sess))
	for i := 0; i < 2; i++ {
		pair := &entity.MessagePair{
			Id:          uuid.New(),
			UserId:      active.Id,
			SessionId:   sess.Id,
			UserMessage: "q",
			AiResponse:  "a",
			CreatedAt:   time.Now(),
		}
		require.NoError(t, uow.MessagePairRepository().Create(context.Background(), pair))
	}

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.ActiveUsers)
	assert.EqualValues(t, 1, stats.BlockedUsers)
	assert.EqualValues(t, 1, stats.PendingApprovals)
	assert.EqualValues(t, 1, stats.TotalSessions)
	assert.EqualValues(t, 2, stats.TotalMessages)
}

func TestUpdateUserStatus(t *testing.T) {
	svc, _, factory, _ := newAdminService(t)
	account := seedUser(t, factory, "member@example.com", "password1", entity.UserRoleUser)

	uow := factory.NewUnitOfWork(context.Background())
	token := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    account.Id,
		TokenHash: "abc123hash",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.UserRepository().CreateRefreshToken(context.Background(), token))

	t.Run("blocking revokes refresh tokens", func(t *testing.T) {
		err := svc.UpdateUserStatus(context.Background(), account.Id, dto.UpdateUserStatusRequest{
			Status: "blocked",
			Reason: "abuse",
		})
		require.NoError(t, err)

		blocked := findUserByEmail(t, factory, account.Email)
		assert.Equal(t, entity.UserStatusBlocked, blocked.Status)

		stored, err := uow.UserRepository().FindRefreshToken(context.Background(), specification.ByTokenHash{Hash: "abc123hash"})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, stored.Revoked)
	})

	t.Run("reinstating flips the status back", func(t *testing.T) {
		err := svc.UpdateUserStatus(context.Background(), account.Id, dto.UpdateUserStatusRequest{Status: "active"})
		require.NoError(t, err)
		assert.Equal(t, entity.UserStatusActive, findUserByEmail(t, factory, account.Email).Status)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.UpdateUserStatus(context.Background(), uuid.New(), dto.UpdateUserStatusRequest{Status: "blocked"})
		require.Error(t, err)
		assert.Equal(t, "user not found", err.Error())
	})
}

func TestDeleteUserWipesEverything(t *testing.T) {
	svc, _, factory, notifRepo := newAdminService(t)
	account := seedUser(t, factory, "doomed@example.com", "password1", entity.UserRoleUser)

	uow := factory.NewUnitOfWork(context.Background())
	sess := &entity.ChatSession{Id: uuid.New(), UserId: account.Id, Title: "gone soon", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, uow.ChatSessionRepository().Create(context.Background(), sess))
	pair := &entity.MessagePair{Id: uuid.New(), UserId: account.Id, SessionId: sess.Id, UserMessage: "q", AiResponse: "a", CreatedAt: time.Now()}
	require.NoError(t, uow.MessagePairRepository().Create(context.Background(), pair))
	require.NoError(t, uow.SettingRepository().Upsert(context.Background(), entity.DefaultUserSetting(account.Id)))
	token := &entity.UserRefreshToken{Id: uuid.New(), UserId: account.Id, TokenHash: "doomedhash", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	require.NoError(t, uow.UserRepository().CreateRefreshToken(context.Background(), token))
	require.NoError(t, notifRepo.CreateNotification(context.Background(), &model.Notification{
		ID:       uuid.New(),
		UserID:   account.Id,
		TypeCode: "USER_LOGIN",
		Title:    "Login detected",
		Message:  "You logged in",
	}))

	require.NoError(t, svc.DeleteUser(context.Background(), account.Id))

	// Soft delete: the account vanishes from normal reads but the row stays
	assert.Nil(t, findUserByEmail(t, factory, account.Email))
	ghost, err := uow.UserRepository().FindOneUnscoped(context.Background(), specification.ByID{ID: account.Id})
	require.NoError(t, err)
	assert.NotNil(t, ghost)

	sessions, err := uow.ChatSessionRepository().Count(context.Background(), specification.UserOwnedBy{UserID: account.Id})
	require.NoError(t, err)
	assert.EqualValues(t, 0, sessions)

	pairs, err := uow.MessagePairRepository().Count(context.Background(), specification.UserOwnedBy{UserID: account.Id})
	require.NoError(t, err)
	assert.EqualValues(t, 0, pairs)

	setting, err := uow.SettingRepository().Get(context.Background(), account.Id)
	require.NoError(t, err)
	assert.Nil(t, setting)

	stored, err := uow.UserRepository().FindRefreshToken(context.Background(), specification.ByTokenHash{Hash: "doomedhash"})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Revoked)

	notifications, total, err := notifRepo.GetNotificationsByUserID(context.Background(), account.Id, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, notifications)
	assert.EqualValues(t, 0, total)

	t.Run("unknown user", func(t *testing.T) {
		err := svc.DeleteUser(context.Background(), uuid.New())
		require.Error(t, err)
		assert.Equal(t, "user not found", err.Error())
	})
}

func TestGetAllUsersFilters(t *testing.T) {
	svc, _, factory, _ := newAdminService(t)

	seedUser(t, factory, "alice@example.com", "password1", entity.UserRoleUser)
	seedUser(t, factory, "bob@example.com", "password1", entity.UserRoleUser)
	seedUser(t, factory, "root@example.com", "password1", entity.UserRoleAdmin)

	all, err := svc.GetAllUsers(context.Background(), dto.AdminUserListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	admins, err := svc.GetAllUsers(context.Background(), dto.AdminUserListRequest{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "root@example.com", admins[0].Email)

	paged, err := svc.GetAllUsers(context.Background(), dto.AdminUserListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestGetUserDetail(t *testing.T) {
	svc, _, factory, _ := newAdminService(t)
	account := seedUser(t, factory, "detail@example.com", "password1", entity.UserRoleUser)

	profile, err := svc.GetUserDetail(context.Background(), account.Id)
	require.NoError(t, err)
	assert.Equal(t, account.Id, profile.Id)
	assert.Equal(t, "detail@example.com", profile.Email)
	assert.Equal(t, "user", profile.Role)
	assert.Equal(t, "active", profile.Status)

	_, err = svc.GetUserDetail(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "user not found", err.Error())
}

func TestSystemLogsRoundTrip(t *testing.T) {
	svc, _, factory, _ := newAdminService(t)
	pending := seedPendingApproval(t, factory, "logged@example.com", "password1")

	// The decision writes an ADMIN info line to the log file
	_, err := svc.DecideApproval(context.Background(), dto.DecideApprovalRequest{
		Email:    pending.Email,
		Decision: "approve",
	}, uuid.New())
	require.NoError(t, err)

	logs, err := svc.GetSystemLogs(context.Background(), 1, 50, "", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "Approved registration", logs[0].Message)
	assert.Equal(t, "INFO", logs[0].Level)
	assert.Len(t, logs[0].Id, 32) // md5 of the raw line

	detail, err := svc.GetLogDetail(context.Background(), logs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "Approved registration", detail.Message)
	require.NotNil(t, detail.Details)
	assert.Equal(t, pending.Email, detail.Details["email"])

	t.Run("level filter excludes info lines", func(t *testing.T) {
		errorsOnly, err := svc.GetSystemLogs(context.Background(), 1, 50, "error", "")
		require.NoError(t, err)
		assert.Empty(t, errorsOnly)
	})

	t.Run("unknown log id", func(t *testing.T) {
		_, err := svc.GetLogDetail(context.Background(), "ffffffffffffffffffffffffffffffff")
		require.Error(t, err)
	})
}
