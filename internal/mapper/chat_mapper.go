package mapper

import (
	"wspace-be/internal/entity"
	"wspace-be/internal/model"

	"github.com/samber/lo"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var messages []*entity.ChatMessage
	if s.Messages != nil {
		messages = lo.Map(s.Messages, func(msg model.ChatMessage, _ int) *entity.ChatMessage {
			return m.ChatMessageToEntity(&msg)
		})
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  messages,
	}
}

// ChatSessionToModel never carries messages; they are written through the message repository.
func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *ChatMapper) ChatSessionsToEntities(sessions []*model.ChatSession) []*entity.ChatSession {
	return lo.Map(sessions, func(s *model.ChatSession, _ int) *entity.ChatSession {
		return m.ChatSessionToEntity(s)
	})
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var results []entity.SearchResult
	if len(msg.SearchResults) > 0 {
		results = lo.Map(msg.SearchResults, func(r model.SearchResult, _ int) entity.SearchResult {
			return entity.SearchResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet}
		})
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          entity.ChatRole(msg.Role),
		Content:       msg.Content,
		SearchResults: results,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	results := lo.Map(msg.SearchResults, func(r entity.SearchResult, _ int) model.SearchResult {
		return model.SearchResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet}
	})

	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          string(msg.Role),
		Content:       msg.Content,
		SearchResults: results,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(messages []*model.ChatMessage) []*entity.ChatMessage {
	return lo.Map(messages, func(msg *model.ChatMessage, _ int) *entity.ChatMessage {
		return m.ChatMessageToEntity(msg)
	})
}
