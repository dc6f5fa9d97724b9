package services

import (
	"testing"

	"boodaypizza/server/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB поднимает in-memory SQLite с мигрированной схемой.
// Одно соединение, чтобы вся БД жила в одном :memory: инстансе.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createTestBranch(t *testing.T, db *gorm.DB, name, city string) *models.Branch {
	t.Helper()
	branch := models.Branch{Name: name, City: city}
	require.NoError(t, db.Create(&branch).Error)
	return &branch
}

func createTestCategory(t *testing.T, db *gorm.DB, name, pricingModel string) *models.Category {
	t.Helper()
	category := models.Category{Name: name, Emoji: "🍕", PricingModel: pricingModel}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func createTestSubcategory(t *testing.T, db *gorm.DB, name, categoryID string) *models.Subcategory {
	t.Helper()
	subcategory := models.Subcategory{Name: name, CategoryID: categoryID}
	require.NoError(t, db.Create(&subcategory).Error)
	return &subcategory
}

func floatPtr(v float64) *float64 {
	return &v
}
