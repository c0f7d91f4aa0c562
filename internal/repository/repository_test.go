package repository

import (
	"context"
	"testing"

	"blogapp/internal/models"
	"blogapp/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAddsProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "ada@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user, nil))

	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "ada", user.FullName)

	profile, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfileImage, profile.Image)
	assert.Equal(t, "ada", profile.FullName)
	require.NotNil(t, profile.User)
	assert.Equal(t, user.Email, profile.User.Email)
}

func TestUserRepository_DuplicateEmailIsConflict(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "dup@example.com", Password: "x"}, nil))
	err := repo.Create(ctx, &models.User{Email: "dup@example.com", Username: "other", Password: "x"}, nil)

	require.Error(t, err)
	assert.Equal(t, 400, models.StatusFor(err))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&models.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_TakenField(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	testutil.MakeUser(t, db, "grace@example.com", false)

	field, err := repo.TakenField(ctx, "GRACE@example.com", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "email", field)

	field, err = repo.TakenField(ctx, "new@example.com", "grace")
	require.NoError(t, err)
	assert.Equal(t, "username", field)

	field, err = repo.TakenField(ctx, "new@example.com", "new")
	require.NoError(t, err)
	assert.Empty(t, field)
}

func TestUserRepository_UnknownProfileIsNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := NewUserRepository(db).GetProfile(context.Background(), 404)
	assert.True(t, models.IsNotFound(err))
}

func TestCategoryRepository_ListCountsActivePosts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "writer@example.com", true)
	golang := testutil.MakeCategory(t, db, "Go Lang")
	testutil.MakeCategory(t, db, "Empty")
	testutil.MakePost(t, db, author, golang, "one", models.PostStatusActive)
	testutil.MakePost(t, db, author, golang, "two", models.PostStatusActive)
	testutil.MakePost(t, db, author, golang, "draft", models.PostStatusDraft)

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "go-lang", categories[0].Slug)
	assert.Equal(t, 2, categories[0].PostCount)
	assert.Equal(t, 0, categories[1].PostCount)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.True(t, models.IsNotFound(err))
}

func TestCategoryRepository_UpsertIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Category{Title: "Travel", Image: "a.jpg"}))
	again := &models.Category{Title: "Travel", Image: "b.jpg"}
	require.NoError(t, repo.Upsert(ctx, again))

	var all []models.Category
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, "b.jpg", all[0].Image)
	assert.Equal(t, all[0].ID, again.ID)
}

func TestPostRepository_ListActive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "author@example.com", true)
	first := testutil.MakePost(t, db, author, nil, "first", models.PostStatusActive)
	testutil.MakePost(t, db, author, nil, "hidden", models.PostStatusDisabled)
	second := testutil.MakePost(t, db, author, nil, "second", models.PostStatusActive)

	posts, err := repo.ListActive(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, author.ID, posts[0].User.ID)

	page, err := repo.ListActive(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestPostRepository_ViewActiveBySlugIncrementsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "viewer@example.com", true)
	post := testutil.MakePost(t, db, author, nil, "Hello World", models.PostStatusActive)
	draft := testutil.MakePost(t, db, author, nil, "Not yet", models.PostStatusDraft)

	got, err := repo.ViewActiveBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.View)

	got, err = repo.ViewActiveBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.View)

	_, err = repo.ViewActiveBySlug(ctx, draft.Slug)
	assert.True(t, models.IsNotFound(err))

	var stored models.Post
	require.NoError(t, db.First(&stored, draft.ID).Error)
	assert.Zero(t, stored.View)

	_, err = repo.ViewActiveBySlug(ctx, "no-such-post")
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepository_AuthorScoping(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := testutil.MakeUser(t, db, "owner@example.com", true)
	other := testutil.MakeUser(t, db, "other@example.com", true)
	post := testutil.MakePost(t, db, owner, nil, "mine", models.PostStatusDraft)

	got, err := repo.GetForAuthor(ctx, owner.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, got.Status)

	_, err = repo.GetForAuthor(ctx, other.ID, post.ID)
	assert.True(t, models.IsNotFound(err))

	assert.True(t, models.IsNotFound(repo.Delete(ctx, other.ID, post.ID)))

	mine, err := repo.ListByAuthor(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPostRepository_UpdateMovesCategory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "mover@example.com", true)
	from := testutil.MakeCategory(t, db, "From")
	to := testutil.MakeCategory(t, db, "To")
	post := testutil.MakePost(t, db, author, from, "moving", models.PostStatusActive)

	post.CategoryID = &to.ID
	post.Title = "moved"
	require.NoError(t, repo.Update(ctx, post))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, to.ID, *stored.CategoryID)
	assert.Equal(t, "moved", stored.Title)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	posts := NewPostRepository(db)
	interactions := NewInteractionRepository(db)
	comments := NewCommentRepository(db)

	author := testutil.MakeUser(t, db, "deleter@example.com", true)
	reader := testutil.MakeUser(t, db, "reader@example.com", false)
	post := testutil.MakePost(t, db, author, nil, "doomed", models.PostStatusActive)

	_, err := interactions.ToggleLike(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	_, err = interactions.ToggleBookmark(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	_, err = comments.Create(ctx, &models.Comment{PostID: post.ID, Name: "r", Email: "r@example.com", Comment: "hi"})
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, author.ID, post.ID))

	for _, model := range []any{&models.Post{}, &models.PostLike{}, &models.Bookmark{}, &models.Comment{}, &models.Notification{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}
}

func TestInteractionRepository_ToggleLike(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "liked@example.com", true)
	fan := testutil.MakeUser(t, db, "fan@example.com", false)
	post := testutil.MakePost(t, db, author, nil, "likeable", models.PostStatusActive)

	res, err := repo.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	require.NotNil(t, res.Notification)
	assert.Equal(t, author.ID, res.Notification.UserID)
	assert.Equal(t, models.NotificationLike, res.Notification.Type)

	res, err = repo.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Nil(t, res.Notification)

	var likes, notifications int64
	db.Model(&models.PostLike{}).Count(&likes)
	db.Model(&models.Notification{}).Count(&notifications)
	assert.Zero(t, likes)
	assert.Equal(t, int64(1), notifications)

	_, err = repo.ToggleLike(ctx, fan.ID, 9999)
	assert.True(t, models.IsNotFound(err))
}

func TestInteractionRepository_ToggleBookmark(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "saved@example.com", true)
	reader := testutil.MakeUser(t, db, "saver@example.com", false)
	post := testutil.MakePost(t, db, author, nil, "keeper", models.PostStatusActive)

	added, err := repo.ToggleBookmark(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, added)

	var count int64
	db.Model(&models.Bookmark{}).Count(&count)
	assert.Equal(t, int64(1), count)

	added, err = repo.ToggleBookmark(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, added)

	db.Model(&models.Bookmark{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestCommentRepository_CreateReplyAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "host@example.com", true)
	post := testutil.MakePost(t, db, author, nil, "discuss", models.PostStatusActive)

	comment := &models.Comment{PostID: post.ID, Name: "Guest", Email: "guest@example.com", Comment: "Nice"}
	n, err := repo.Create(ctx, comment)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationComment, n.Type)
	assert.Equal(t, author.ID, n.UserID)

	require.NoError(t, repo.SetReply(ctx, comment.ID, "Thanks"))
	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thanks", got.Reply)
	require.NotNil(t, got.Post)
	assert.Equal(t, author.ID, got.Post.UserID)

	list, err := repo.ListForAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.True(t, models.IsNotFound(repo.SetReply(ctx, 777, "x")))
	_, err = repo.Create(ctx, &models.Comment{PostID: 777, Name: "a", Email: "a@b.co", Comment: "c"})
	assert.True(t, models.IsNotFound(err))
}

func TestNotificationRepository_MarkSeenIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "notified@example.com", true)
	post := testutil.MakePost(t, db, author, nil, "noisy", models.PostStatusActive)
	n := &models.Notification{UserID: author.ID, PostID: &post.ID, Type: models.NotificationBookmark}
	require.NoError(t, db.Create(n).Error)

	unseen, err := repo.ListUnseen(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, unseen, 1)
	require.NotNil(t, unseen[0].Post)

	require.NoError(t, repo.MarkSeen(ctx, n.ID))
	require.NoError(t, repo.MarkSeen(ctx, n.ID))

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Seen)

	unseen, err = repo.ListUnseen(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, unseen)
}

func TestDashboardRepository_Stats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDashboardRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "stats@example.com", true)
	a := testutil.MakeUser(t, db, "a@example.com", false)
	b := testutil.MakeUser(t, db, "b@example.com", false)
	p1 := testutil.MakePost(t, db, author, nil, "p1", models.PostStatusActive)
	p2 := testutil.MakePost(t, db, author, nil, "p2", models.PostStatusDraft)
	require.NoError(t, db.Model(p1).UpdateColumn("view", 5).Error)
	require.NoError(t, db.Model(p2).UpdateColumn("view", 2).Error)

	for _, u := range []*models.User{a, b} {
		_, err := interactions.ToggleLike(ctx, u.ID, p1.ID)
		require.NoError(t, err)
	}
	_, err := interactions.ToggleBookmark(ctx, a.ID, p2.ID)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{Views: 7, Posts: 2, Likes: 2, Bookmarks: 1}, *stats)

	empty, err := repo.Stats(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{}, *empty)
}
