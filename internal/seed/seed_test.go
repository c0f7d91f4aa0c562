package seed

import (
	"context"
	"testing"

	"blogapp/internal/models"
	"blogapp/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadCategories_BundledFixture(t *testing.T) {
	items, err := LoadCategories(categoryFixture)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	bySlug := map[string]CategoryFixture{}
	for _, item := range items {
		bySlug[item.Slug] = item
	}
	assert.Equal(t, "Travel", bySlug["travel"].Title)
	assert.Equal(t, "Food & Drink", bySlug["food"].Title, "explicit slug wins over the title")
}

func TestLoadCategories_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "categories: [title: x"},
		{"missing title", "categories:\n  - slug: empty\n"},
		{"duplicate slug", "categories:\n  - title: Go\n  - title: Other\n    slug: go\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCategories([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestSeeder_Categories_Upserts(t *testing.T) {
	db := testutil.NewDB(t)
	s := NewSeeder(db, 1)
	ctx := context.Background()

	first, err := s.Categories(ctx, []byte("categories:\n  - title: Travel\n    image: a.jpg\n"))
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := s.Categories(ctx, []byte("categories:\n  - title: Travel\n    image: b.jpg\n  - title: Books\n"))
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "b.jpg", second[0].Image)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewDB(t)
	s := NewSeeder(db, 42)
	ctx := context.Background()

	summary, err := s.Run(ctx, Options{NumUsers: 4, NumPosts: 12})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Users)
	assert.Equal(t, 12, summary.Posts)
	assert.Equal(t, summary.Comments+summary.Likes, summary.Notifications, "bookmarks do not notify")

	var users []models.User
	require.NoError(t, db.Preload("Profile").Find(&users).Error)
	require.Len(t, users, 4)
	for _, u := range users {
		require.NotNil(t, u.Profile)
		assert.True(t, u.Profile.Author)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)))
	}

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 12)
	for _, p := range posts {
		assert.NotNil(t, p.CategoryID)
		assert.NotNil(t, p.ProfileID)
		assert.NotEmpty(t, p.Slug)
		assert.True(t, models.ValidPostStatus(p.Status), p.Status)
	}

	var selfLikes int64
	require.NoError(t, db.Table("post_likes").
		Joins("JOIN posts ON posts.id = post_likes.post_id").
		Where("posts.user_id = post_likes.user_id").
		Count(&selfLikes).Error)
	assert.Zero(t, selfLikes, "authors never like their own posts")
}

func TestSeeder_RunClean(t *testing.T) {
	db := testutil.NewDB(t)
	s := NewSeeder(db, 7)
	ctx := context.Background()

	_, err := s.Run(ctx, Options{NumUsers: 3, NumPosts: 5})
	require.NoError(t, err)
	summary, err := s.Run(ctx, Options{NumUsers: 2, NumPosts: 3, ShouldClean: true})
	require.NoError(t, err)

	var users, posts, notifications int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Notification{}).Count(&notifications).Error)
	assert.Equal(t, int64(2), users)
	assert.Equal(t, int64(3), posts)
	assert.Equal(t, int64(summary.Notifications), notifications)
}

func TestSeeder_RunRejectsPostsWithoutUsers(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := NewSeeder(db, 1).Run(context.Background(), Options{NumPosts: 3})
	assert.Error(t, err)
}
