package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/mealmatch/backend/internal/database"
)

// SetupTestDatabase opens a private in-memory SQLite database with the full
// schema. A single connection keeps every query on the same memory database.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open sqlite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db, "", zap.NewNop()), "failed to migrate test database")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
