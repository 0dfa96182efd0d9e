package repository

import (
	"testing"

	"quietspace/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Favorite{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

func createTestPost(t *testing.T, db *gorm.DB, userID string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		UserName:  "tester",
		PlaceName: "Central Library",
		ImageURL:  "http://img.example/p.jpg",
		Caption:   "so calm",
		Category:  models.CategoryAtmosphere,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}
