package unitofwork

import (
	"context"

	"ai-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ApprovalRepository() contract.ApprovalRepository
	ChatSessionRepository() contract.ChatSessionRepository
	MessagePairRepository() contract.MessagePairRepository
	SettingRepository() contract.SettingRepository
}
