package entity

import (
	"time"

	"github.com/google/uuid"
)

type Category string
type Priority string
type AnalysisStatus string

const (
	CategoryDaily Category = "daily"
	CategoryWork  Category = "work"
	CategoryStudy Category = "study"
	CategoryOther Category = "other"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	AnalysisPending   AnalysisStatus = "pending"
	AnalysisCompleted AnalysisStatus = "completed"
	AnalysisFailed    AnalysisStatus = "failed"
)

// Analysis is the AI-derived metadata attached to notes and documents.
type Analysis struct {
	Summary      string
	Category     Category
	Tags         []string
	Priority     Priority
	ActionItems  []string
	Status       AnalysisStatus
	NotionPageId *string
}

type Note struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Analysis  Analysis
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
