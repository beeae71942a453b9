package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type ChatMessage struct {
	Id            uuid.UUID                         `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID                         `gorm:"type:uuid;not null;index:idx_chat_messages_session_created,priority:1"`
	Role          string                            `gorm:"type:varchar(20);not null"`
	Content       string                            `gorm:"type:text;not null"`
	SearchResults datatypes.JSONSlice[SearchResult] `gorm:"not null"`
	CreatedAt     time.Time                         `gorm:"not null;index:idx_chat_messages_session_created,priority:2;autoCreateTime:false"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
