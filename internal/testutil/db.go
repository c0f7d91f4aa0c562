package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"blogapp/internal/database"
	"blogapp/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection so every query sees the same memory DB.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:blogapp_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// MakeUser inserts a user with a profile. Author marks the profile as an author.
func MakeUser(t *testing.T, db *gorm.DB, email string, author bool) *models.User {
	t.Helper()

	user := &models.User{Email: email, Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	profile := &models.Profile{UserID: user.ID, Author: author}
	profile.ApplyDefaults(user)
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile %s: %v", email, err)
	}
	user.Profile = profile
	return user
}

// MakeCategory inserts a category.
func MakeCategory(t *testing.T, db *gorm.DB, title string) *models.Category {
	t.Helper()

	c := &models.Category{Title: title}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create category %s: %v", title, err)
	}
	return c
}

// MakePost inserts a post owned by author with the given status.
func MakePost(t *testing.T, db *gorm.DB, author *models.User, category *models.Category, title, status string) *models.Post {
	t.Helper()

	p := &models.Post{
		UserID:      author.ID,
		Title:       title,
		Description: "body of " + title,
		Status:      status,
	}
	if author.Profile != nil {
		p.ProfileID = &author.Profile.ID
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return p
}
