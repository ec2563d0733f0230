package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.MessagePairRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Message Repository", func(t *testing.T) {
		count, err := uow.MessagePairRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("MessagePair count: %d", count)
	})

	t.Run("Transactional chat write", func(t *testing.T) {
		ctx := context.Background()

		// A session write is session + pair + counter bump in one tx.
		user := &entity.User{
			Id:       uuid.New(),
			Email:    "integration-" + uuid.NewString() + "@example.com",
			FullName: "Integration Test User",
			Role:     entity.UserRoleUser,
			Status:   entity.UserStatusActive,
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))

		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		session := &entity.ChatSession{
			Id:     uuid.New(),
			UserId: user.Id,
			Title:  "Integration session",
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))

		pair := &entity.MessagePair{
			Id:          uuid.New(),
			UserId:      user.Id,
			SessionId:   session.Id,
			UserMessage: "ping",
			AiResponse:  "pong",
		}
		require.NoError(t, uow.MessagePairRepository().Create(ctx, pair))
		require.NoError(t, uow.ChatSessionRepository().AdjustMessageCount(ctx, session.Id, 1))

		require.NoError(t, uow.Commit())

		stored, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, 1, stored.MessageCount)

		t.Log("Successfully created Session with MessagePair in Transaction")
	})
}
