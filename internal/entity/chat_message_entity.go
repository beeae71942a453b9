package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          ChatRole
	Content       string
	SearchResults []SearchResult
	CreatedAt     time.Time
}
