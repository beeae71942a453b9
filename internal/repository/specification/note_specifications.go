package specification

import (
	"gorm.io/gorm"
)

// ByCategory filters analysed notes and documents.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	if s.Category == "" {
		return db
	}
	return db.Where("category = ?", s.Category)
}
