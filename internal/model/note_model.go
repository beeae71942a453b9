package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Analysis holds the AI-derived fields shared by notes and documents.
type Analysis struct {
	Summary        string                      `gorm:"type:text"`
	Category       string                      `gorm:"type:varchar(20);not null;default:'other'"`
	Tags           datatypes.JSONSlice[string] `gorm:"not null"`
	Priority       string                      `gorm:"type:varchar(20);not null;default:'medium'"`
	ActionItems    datatypes.JSONSlice[string] `gorm:"not null"`
	AnalysisStatus string                      `gorm:"type:varchar(20);not null;default:'pending'"`
	NotionPageId   *string                     `gorm:"type:varchar(255)"`
}

type Note struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Content   string         `gorm:"type:text"`
	Analysis  Analysis       `gorm:"embedded"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
