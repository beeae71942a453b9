package contract

import (
	"context"

	"wspace-be/internal/entity"
	"wspace-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatMessageRepository has no Update: messages are immutable once stored.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
