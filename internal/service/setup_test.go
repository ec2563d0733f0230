package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema. A
// single connection keeps every query (and transaction) on the same DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.UserRefreshToken{},
		&model.UserApproval{},
		&model.UserSetting{},
		&model.ChatSession{},
		&model.MessagePair{},
		&model.NotificationType{},
		&model.Notification{},
	))

	return db
}

func newTestFactory(t *testing.T) (unitofwork.RepositoryFactory, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return unitofwork.NewRepositoryFactory(db), db
}

func newTestLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewZapLogger(filepath.Join(t.TempDir(), "test.log"), false)
}

func testAiConfig() config.AIConfig {
	return config.AIConfig{
		Provider:     "openai",
		Model:        "test-model",
		SystemPrompt: "You are a test assistant.",
		MaxTokens:    100,
		Temperature:  0.1,
	}
}

// stubProvider is an in-memory llm.LLMProvider. Reply and Err script the
// outcome; Calls records every prompt the service assembled.
type stubProvider struct {
	Reply string
	Err   error
	Calls [][]llm.Message
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.Calls = append(s.Calls, history)
	if s.Err != nil {
		return "", s.Err
	}
	if s.Reply == "" {
		return "stub reply", nil
	}
	return s.Reply, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

var errProviderDown = errors.New("upstream unavailable")

// recordingMailer satisfies mailer.IEmailService and just remembers what
// would have been sent.
type recordingMailer struct {
	Approvals []string // recipient emails
	Denials   []string
	Resets    []string
}

func (m *recordingMailer) SendApprovalEmail(toEmail, fullName string) error {
	m.Approvals = append(m.Approvals, toEmail)
	return nil
}

func (m *recordingMailer) SendDenialEmail(toEmail, fullName, reason string) error {
	m.Denials = append(m.Denials, toEmail)
	return nil
}

func (m *recordingMailer) SendResetToken(toEmail, token string) error {
	m.Resets = append(m.Resets, toEmail)
	return nil
}

func seedUser(t *testing.T, factory unitofwork.RepositoryFactory, email, password string, role entity.UserRole) *entity.User {
	t.Helper()

	var hashPtr *string
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hashStr := string(hash)
		hashPtr = &hashStr
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: hashPtr,
		FullName:     "Test User",
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

func seedPendingApproval(t *testing.T, factory unitofwork.RepositoryFactory, email, password string) *entity.UserApproval {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	approval := &entity.UserApproval{
		Id:           uuid.New(),
		Email:        email,
		FullName:     "Applicant",
		PasswordHash: string(hash),
		Status:       entity.ApprovalStatusPending,
		RequestedAt:  time.Now(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.ApprovalRepository().Create(context.Background(), approval))
	return approval
}
