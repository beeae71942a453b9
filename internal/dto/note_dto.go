package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisDTO struct {
	Summary      string   `json:"summary"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Priority     string   `json:"priority"`
	ActionItems  []string `json:"actionItems"`
	Status       string   `json:"status"`
	NotionPageId *string  `json:"notionPageId,omitempty"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title" validate:"required,max=255"`
	Content string    `json:"content"`
}

type NoteResponse struct {
	Id        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Analysis  AnalysisDTO `json:"analysis"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt *time.Time  `json:"updatedAt"`
}

type CreateDocumentRequest struct {
	FileName string `json:"fileName" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
}

type DocumentResponse struct {
	Id        uuid.UUID   `json:"id"`
	FileName  string      `json:"fileName"`
	Content   string      `json:"content,omitempty"`
	Analysis  AnalysisDTO `json:"analysis"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt *time.Time  `json:"updatedAt"`
}

// AnalysisKind names the table an analysis job targets.
type AnalysisKind string

const (
	AnalysisKindNote     AnalysisKind = "note"
	AnalysisKindDocument AnalysisKind = "document"
)

// PublishAnalysisMessage is the payload on the analysis topic.
type PublishAnalysisMessage struct {
	Kind AnalysisKind `json:"kind"`
	Id   uuid.UUID    `json:"id"`
}
