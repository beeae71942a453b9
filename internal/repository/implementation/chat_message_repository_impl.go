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

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{db: db, mapper: mapper.NewChatMapper()}
}

// Messages are append-only; there is no Update.
func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	return insert(ctx, r.db, message, r.mapper.ChatMessageToModel, r.mapper.ChatMessageToEntity)
}

func (r *ChatMessageRepositoryImpl) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_session_id = ?", sessionId).Delete(&model.ChatMessage{}).Error
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return findAll(ctx, r.db, r.mapper.ChatMessagesToEntities, specs)
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count[model.ChatMessage](ctx, r.db, specs)
}
