// Package databasetest opens migrated in-memory databases for tests.
package databasetest

import (
	"testing"

	"wspace-be/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLite returns a private, fully migrated in-memory database closed at test cleanup.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewSilentSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
