package implementation

import (
	"context"
	"errors"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/mapper"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/scope"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessagePairRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessagePairRepository(db *gorm.DB) contract.MessagePairRepository {
	return &MessagePairRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessagePairRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessagePairRepositoryImpl) Create(ctx context.Context, pair *entity.MessagePair) error {
	m := r.mapper.MessagePairToModel(pair)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*pair = *r.mapper.MessagePairToEntity(m)
	return nil
}

func (r *MessagePairRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MessagePair{}, id).Error
}

func (r *MessagePairRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.MessagePair{}).Error
}

func (r *MessagePairRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.MessagePair{}).Error
}

func (r *MessagePairRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MessagePair, error) {
	var m model.MessagePair
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessagePairToEntity(&m), nil
}

func (r *MessagePairRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessagePair, error) {
	var models []*model.MessagePair
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MessagePairsToEntities(models), nil
}

// FindRecentBySession fetches the newest limit pairs and reverses them so
// callers get chronological order, ready to feed the provider context.
func (r *MessagePairRepositoryImpl) FindRecentBySession(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.MessagePair, error) {
	var models []*model.MessagePair
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Scopes(scope.OrderByCreatedDesc).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.MessagePairsToEntities(models), nil
}

func (r *MessagePairRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.MessagePair{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessagePairRepositoryImpl) GetMessageGrowth(ctx context.Context, days int) ([]map[string]interface{}, error) {
	var results []map[string]interface{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(created_at, 'YYYY-MM-DD') as date, COUNT(*) as count
		FROM messages
		WHERE created_at > NOW() - make_interval(days => ?)
		GROUP BY date
		ORDER BY date ASC
	`, days).Scan(&results).Error
	return results, err
}
