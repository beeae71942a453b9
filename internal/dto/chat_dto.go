package dto

import (
	"time"

	"github.com/google/uuid"
)

type SearchResultDTO struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type MessageResponse struct {
	Id            uuid.UUID         `json:"id"`
	SessionId     uuid.UUID         `json:"sessionId"`
	Role          string            `json:"role"`
	Content       string            `json:"content"`
	SearchResults []SearchResultDTO `json:"searchResults,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type SessionResponse struct {
	Id        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Messages  []MessageResponse `json:"messages"`
}

type CreateSessionRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
}

type CreateSessionResponse struct {
	Session SessionResponse `json:"session"`
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

type RenameSessionRequest struct {
	Id    uuid.UUID `json:"-"`
	Title string    `json:"title" validate:"required,max=200"`
}

type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type SendChatRequest struct {
	SessionId        uuid.UUID `json:"sessionId" validate:"required"`
	Message          string    `json:"message" validate:"required,max=8000"`
	WebSearchEnabled bool      `json:"webSearchEnabled"`
}

type SendChatResponse struct {
	UserMessage      MessageResponse `json:"userMessage"`
	AssistantMessage MessageResponse `json:"assistantMessage"`
	SessionTitle     string          `json:"sessionTitle"`
	NeedsWebSearch   bool            `json:"needsWebSearch"`
}
