package implementation

import (
	"context"

	"wspace-be/internal/entity"
	"wspace-be/internal/mapper"
	"wspace-be/internal/model"
	"wspace-be/internal/repository/contract"
	"wspace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{db: db, mapper: mapper.NewChatMapper()}
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	if err := insert(ctx, r.db, session, r.mapper.ChatSessionToModel, r.mapper.ChatSessionToEntity); err != nil {
		return err
	}
	session.Messages = []*entity.ChatMessage{}
	return nil
}

// Update writes title and updatedAt only; user_id is immutable after creation.
func (r *ChatSessionRepositoryImpl) Update(ctx context.Context, session *entity.ChatSession) error {
	res := r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("id = ?", session.Id).
		Updates(map[string]interface{}{
			"title":      session.Title,
			"updated_at": session.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChatSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ChatSession{}).Error
}

func (r *ChatSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return findOne(ctx, r.db, r.mapper.ChatSessionToEntity, specs)
}

func (r *ChatSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return findAll(ctx, r.db, r.mapper.ChatSessionsToEntities, specs)
}

func (r *ChatSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count[model.ChatSession](ctx, r.db, specs)
}
