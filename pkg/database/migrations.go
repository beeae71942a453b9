package database

import (
	"log"

	"wspace-be/internal/model"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func GetMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202410010001_users_and_chat",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.User{}, &model.ChatSession{}, &model.ChatMessage{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("chat_messages", "chat_sessions", "users")
			},
		},
		{
			ID: "202410080001_notes_and_documents",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.Note{}, &model.Document{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("documents", "notes")
			},
		},
	})

	migrator.InitSchema(func(tx *gorm.DB) error {
		// Clean database: create the latest schema directly instead of replaying every step.
		log.Println("clean database detected, running full schema initialization")
		return tx.AutoMigrate(
			&model.User{}, &model.ChatSession{}, &model.ChatMessage{}, &model.Note{}, &model.Document{},
		)
	})

	return migrator
}

// Migrate brings the schema to the latest version.
func Migrate(db *gorm.DB) error {
	return GetMigrator(db).Migrate()
}
