package implementation

import (
	"context"
	"errors"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/mapper"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApprovalMapper
}

func NewApprovalRepository(db *gorm.DB) contract.ApprovalRepository {
	return &ApprovalRepositoryImpl{
		db:     db,
		mapper: mapper.NewApprovalMapper(),
	}
}

func (r *ApprovalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ApprovalRepositoryImpl) Create(ctx context.Context, approval *entity.UserApproval) error {
	m := r.mapper.ToModel(approval)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*approval = *r.mapper.ToEntity(m)
	return nil
}

// Decide is a single conditional update: only a row still pending can flip,
// so concurrent deciders race on the WHERE clause instead of each other.
// RowsAffected == 0 means the email had nothing pending.
func (r *ApprovalRepositoryImpl) Decide(ctx context.Context, decision *entity.ApprovalDecision, decidedAt time.Time) (int64, error) {
	status := entity.ApprovalStatusDenied
	if decision.Approve {
		status = entity.ApprovalStatusApproved
	}

	updates := map[string]interface{}{
		"status":      string(status),
		"approved_at": decidedAt,
		"approved_by": decision.DecidedBy,
		"updated_at":  decidedAt,
	}
	if decision.Notes != nil {
		updates["notes"] = *decision.Notes
	}
	if decision.DenialReason != nil {
		updates["denial_reason"] = *decision.DenialReason
	}

	result := r.db.WithContext(ctx).Model(&model.UserApproval{}).
		Where("email = ? AND status = ?", decision.Email, string(entity.ApprovalStatusPending)).
		UpdateColumns(updates)
	return result.RowsAffected, result.Error
}

func (r *ApprovalRepositoryImpl) LinkUser(ctx context.Context, approvalId, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.UserApproval{}).
		Where("id = ?", approvalId).
		UpdateColumn("user_id", userId).Error
}

func (r *ApprovalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserApproval, error) {
	var m model.UserApproval
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ApprovalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserApproval, error) {
	var models []*model.UserApproval
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ApprovalRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UserApproval{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
