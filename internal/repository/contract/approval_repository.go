package contract

import (
	"context"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.UserApproval) error
	// Decide flips exactly one pending row for the email via a single
	// conditional update (WHERE status = 'pending'). Returns the number of
	// rows affected: 0 means there was nothing pending and the caller must
	// treat the decision as already processed.
	Decide(ctx context.Context, decision *entity.ApprovalDecision, decidedAt time.Time) (int64, error)
	// LinkUser records the provisioned account on an approved row.
	LinkUser(ctx context.Context, approvalId, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserApproval, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserApproval, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
