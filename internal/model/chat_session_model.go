package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession timestamps are written by the service layer so message ordering
// stays strictly monotonic; GORM must not overwrite them.
type ChatSession struct {
	Id        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID     `gorm:"type:uuid;not null;index"`
	Title     string        `gorm:"type:text;not null"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time     `gorm:"not null;index;autoUpdateTime:false"`
	Messages  []ChatMessage `gorm:"foreignKey:ChatSessionId"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
