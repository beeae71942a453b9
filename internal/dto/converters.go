package dto

import (
	"wspace-be/internal/entity"

	"github.com/samber/lo"
)

func NewMessageResponse(m *entity.ChatMessage) MessageResponse {
	res := MessageResponse{
		Id:        m.Id,
		SessionId: m.ChatSessionId,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if len(m.SearchResults) > 0 {
		res.SearchResults = lo.Map(m.SearchResults, func(r entity.SearchResult, _ int) SearchResultDTO {
			return SearchResultDTO{Title: r.Title, Link: r.Link, Snippet: r.Snippet}
		})
	}
	return res
}

func NewMessageResponses(messages []*entity.ChatMessage) []MessageResponse {
	return lo.Map(messages, func(m *entity.ChatMessage, _ int) MessageResponse {
		return NewMessageResponse(m)
	})
}

func NewSessionResponse(s *entity.ChatSession) SessionResponse {
	return SessionResponse{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  NewMessageResponses(s.Messages),
	}
}

func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		Id:           u.Id,
		FullName:     u.FullName,
		Email:        u.Email,
		NotionLinked: u.HasNotion(),
		CreatedAt:    u.CreatedAt,
	}
}

func newAnalysisDTO(a entity.Analysis) AnalysisDTO {
	return AnalysisDTO{
		Summary:      a.Summary,
		Category:     string(a.Category),
		Tags:         lo.Ternary(a.Tags == nil, []string{}, a.Tags),
		Priority:     string(a.Priority),
		ActionItems:  lo.Ternary(a.ActionItems == nil, []string{}, a.ActionItems),
		Status:       string(a.Status),
		NotionPageId: a.NotionPageId,
	}
}

func NewNoteResponse(n *entity.Note) NoteResponse {
	return NoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Analysis:  newAnalysisDTO(n.Analysis),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func NewDocumentResponse(d *entity.Document, withContent bool) DocumentResponse {
	res := DocumentResponse{
		Id:        d.Id,
		FileName:  d.FileName,
		Analysis:  newAnalysisDTO(d.Analysis),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if withContent {
		res.Content = d.Content
	}
	return res
}
