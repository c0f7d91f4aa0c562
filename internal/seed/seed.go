// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogapp/internal/middleware"
	"blogapp/internal/models"
	"blogapp/internal/repository"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed categories.yml
var categoryFixture []byte

// CategoryFixture is one entry of the category YAML fixture. Slug defaults to
// the slugified title.
type CategoryFixture struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
	Image string `yaml:"image"`
}

// LoadCategories parses a category fixture document.
func LoadCategories(data []byte) ([]CategoryFixture, error) {
	var doc struct {
		Categories []CategoryFixture `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse category fixture: %w", err)
	}

	seen := make(map[string]bool, len(doc.Categories))
	for i := range doc.Categories {
		c := &doc.Categories[i]
		c.Title = strings.TrimSpace(c.Title)
		if c.Title == "" {
			return nil, fmt.Errorf("category fixture entry %d has no title", i)
		}
		if strings.TrimSpace(c.Slug) == "" {
			c.Slug = models.Slugify(c.Title)
		}
		if seen[c.Slug] {
			return nil, fmt.Errorf("duplicate category slug %q", c.Slug)
		}
		seen[c.Slug] = true
	}
	return doc.Categories, nil
}

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Summary counts the rows a run created.
type Summary struct {
	Categories    int
	Users         int
	Posts         int
	Comments      int
	Likes         int
	Bookmarks     int
	Notifications int
}

// Seeder fills the database with fixture categories and fake content.
type Seeder struct {
	db         *gorm.DB
	categories repository.CategoryRepository
	factory    *Factory
}

// NewSeeder builds a seeder. A zero randSeed picks a time-based one.
func NewSeeder(db *gorm.DB, randSeed int64) *Seeder {
	return &Seeder{
		db:         db,
		categories: repository.NewCategoryRepository(db),
		factory:    NewFactory(randSeed),
	}
}

// Run seeds categories, then authors with posts and reader engagement.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.NumUsers < 0 || opts.NumPosts < 0 {
		return nil, errors.New("seed counts must not be negative")
	}
	if opts.NumPosts > 0 && opts.NumUsers == 0 {
		return nil, errors.New("posts need at least one user")
	}

	if opts.ShouldClean {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}

	categories, err := s.Categories(ctx, categoryFixture)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Categories: len(categories)}

	users, err := s.seedUsers(ctx, opts.NumUsers)
	if err != nil {
		return nil, err
	}
	summary.Users = len(users)

	posts, err := s.seedPosts(ctx, users, categories, opts.NumPosts)
	if err != nil {
		return nil, err
	}
	summary.Posts = len(posts)

	if err := s.seedEngagement(ctx, users, posts, summary); err != nil {
		return nil, err
	}

	middleware.Logger.Info("seed complete",
		slog.Int("categories", summary.Categories),
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
		slog.Int("likes", summary.Likes),
		slog.Int("bookmarks", summary.Bookmarks),
	)
	return summary, nil
}

// Categories upserts the fixture categories by slug and returns them.
func (s *Seeder) Categories(ctx context.Context, fixture []byte) ([]models.Category, error) {
	items, err := LoadCategories(fixture)
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(items))
	for _, item := range items {
		c := models.Category{Title: item.Title, Slug: item.Slug, Image: item.Image}
		if err := s.categories.Upsert(ctx, &c); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", item.Slug, err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// Clean removes all blog content, users and categories.
func (s *Seeder) Clean(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	order := []any{
		&models.Notification{},
		&models.Bookmark{},
		&models.PostLike{},
		&models.Comment{},
		&models.Post{},
		&models.Profile{},
		&models.User{},
		&models.Category{},
	}
	for _, model := range order {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clean %T: %w", model, err)
		}
	}
	middleware.Logger.Info("seed data cleared")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := range n {
		user, err := s.factory.User(i)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", user.Email, err)
		}
		users = append(users, *user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []models.User, categories []models.Category, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := range n {
		author := users[i%len(users)]
		post := s.factory.Post(&author, categories)
		err := s.db.WithContext(ctx).
			Omit("User", "Profile", "Category", "Likes", "Comments").
			Create(post).Error
		if err != nil {
			return nil, fmt.Errorf("create post %q: %w", post.Title, err)
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

// seedEngagement adds comments, likes and bookmarks from other users, plus the
// like and comment notifications their authors would have received.
func (s *Seeder) seedEngagement(ctx context.Context, users []models.User, posts []models.Post, summary *Summary) error {
	var (
		comments      []models.Comment
		likes         []models.PostLike
		bookmarks     []models.Bookmark
		notifications []models.Notification
	)
	for _, post := range posts {
		if post.Status != models.PostStatusActive {
			continue
		}
		postID := post.ID
		for range s.factory.Count(0, 4) {
			comments = append(comments, s.factory.Comment(postID))
			notifications = append(notifications, models.Notification{
				UserID: post.UserID, PostID: &postID, Type: models.NotificationComment,
			})
		}
		for _, reader := range users {
			if reader.ID == post.UserID {
				continue
			}
			if s.factory.Chance(35) {
				likes = append(likes, models.PostLike{PostID: postID, UserID: reader.ID})
				notifications = append(notifications, models.Notification{
					UserID: post.UserID, PostID: &postID, Type: models.NotificationLike,
				})
			}
			if s.factory.Chance(15) {
				bookmarks = append(bookmarks, models.Bookmark{
					UserID: reader.ID, PostID: postID, Type: models.BookmarkType,
				})
			}
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createBatch(tx, comments); err != nil {
			return fmt.Errorf("create comments: %w", err)
		}
		if err := createBatch(tx, likes); err != nil {
			return fmt.Errorf("create likes: %w", err)
		}
		if err := createBatch(tx, bookmarks); err != nil {
			return fmt.Errorf("create bookmarks: %w", err)
		}
		if err := createBatch(tx, notifications); err != nil {
			return fmt.Errorf("create notifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	summary.Comments = len(comments)
	summary.Likes = len(likes)
	summary.Bookmarks = len(bookmarks)
	summary.Notifications = len(notifications)
	return nil
}

func createBatch[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).CreateInBatches(rows, 200).Error
}
