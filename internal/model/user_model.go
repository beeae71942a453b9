package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email             string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      *string        `gorm:"type:varchar(255)"`
	FullName          string         `gorm:"type:varchar(255);not null"`
	NotionAccessToken *string        `gorm:"type:text"`
	NotionDatabaseId  *string        `gorm:"type:varchar(255)"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
