package main

import (
	"log"
	"os"

	"ai-chat-be/internal/model"
	"ai-chat-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		// gen_random_uuid() column defaults need pgcrypto
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate for 10 Tables...")

	models := []interface{}{
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
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Constraints GORM tags can't express
	log.Println("Step 3: Creating Constraints and Indexes...")

	postMigrationSQL := []string{
		// uuid defaults live here, not in model tags: the sqlite driver used
		// in tests cannot parse function defaults.
		`ALTER TABLE users ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE password_reset_tokens ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE user_providers ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE user_refresh_tokens ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE user_approvals ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE chat_sessions ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE messages ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE notifications ALTER COLUMN id SET DEFAULT gen_random_uuid();`,

		// One pending registration per email; decided rows don't block a re-apply.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_approvals_pending_email
		 ON user_approvals (email) WHERE status = 'pending';`,

		// Dropping a session takes its message pairs with it.
		`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_messages_session') THEN
		     ALTER TABLE messages
		       ADD CONSTRAINT fk_messages_session
		       FOREIGN KEY (session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE;
		   END IF;
		 END $$;`,

		// Listing is always "mine, newest first".
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_user_updated
		 ON chat_sessions (user_id, updated_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_created
		 ON messages (session_id, created_at);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
