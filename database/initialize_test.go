package database

import (
	"path/filepath"
	"testing"

	"kartvizit.link/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "init.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestInitialize_MigrateAndSeedIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Initialize(db, true, true))
	require.NoError(t, Initialize(db, false, true))

	var layouts []models.Layout
	require.NoError(t, db.Order("id asc").Find(&layouts).Error)
	require.Len(t, layouts, 4)
	assert.Equal(t, models.LayoutNameMinimal, layouts[models.LayoutIDMinimal-1].Name)

	for _, table := range []string{"cards", "scan_events", "engagement_reports"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestInitialize_NoFlags(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Initialize(db, false, false))
	assert.False(t, db.Migrator().HasTable("layouts"))
}
