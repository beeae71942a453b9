package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                uuid.UUID
	Email             string
	PasswordHash      *string
	FullName          string
	NotionAccessToken *string
	NotionDatabaseId  *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasNotion reports whether the user linked a knowledge base.
func (u *User) HasNotion() bool {
	return u.NotionAccessToken != nil && *u.NotionAccessToken != "" &&
		u.NotionDatabaseId != nil && *u.NotionDatabaseId != ""
}
