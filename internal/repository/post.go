package repository

import (
	"context"

	"blogapp/internal/cache"
	"blogapp/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	ListActive(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListActiveByCategory(ctx context.Context, categoryID uint) ([]models.Post, error)
	ViewActiveBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetForAuthor(ctx context.Context, authorID, postID uint) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, authorID, postID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withPostDetails selects the computed counts and preloads what list and
// detail responses embed.
func withPostDetails(db *gorm.DB) *gorm.DB {
	return db.
		Select("posts.*, " +
			"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS likes_count, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, " +
			"(SELECT COUNT(*) FROM bookmarks WHERE bookmarks.post_id = posts.id) AS bookmarks_count").
		Preload("User").
		Preload("Profile").
		Preload("Category")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id DESC")
}

// ListActive returns Active posts newest first. A non-positive limit returns all.
func (r *postRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Post, error) {
	posts := []models.Post{}
	q := newestFirst(withPostDetails(r.db.WithContext(ctx))).
		Where("posts.status = ?", models.PostStatusActive)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListActiveByCategory(ctx context.Context, categoryID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := newestFirst(withPostDetails(r.db.WithContext(ctx))).
		Where("posts.status = ? AND posts.category_id = ?", models.PostStatusActive, categoryID).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ViewActiveBySlug bumps the view counter of the Active post with slug and
// returns it with comments. Inactive and unknown slugs are not found.
func (r *postRepository) ViewActiveBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("slug = ? AND status = ?", slug, models.PostStatusActive).
			UpdateColumn("view", gorm.Expr("posts.view + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return withPostDetails(tx).
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.created_at DESC").Order("comments.id DESC")
			}).
			Where("posts.slug = ?", slug).
			First(&post).Error
	})
	if err != nil {
		return nil, translateLookup(err, "Post", slug)
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateLookup(err, "Post", id)
	}
	return &post, nil
}

// GetForAuthor returns the author's own post in any status.
func (r *postRepository) GetForAuthor(ctx context.Context, authorID, postID uint) (*models.Post, error) {
	var post models.Post
	err := withPostDetails(r.db.WithContext(ctx)).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC").Order("comments.id DESC")
		}).
		Where("posts.id = ? AND posts.user_id = ?", postID, authorID).
		First(&post).Error
	if err != nil {
		return nil, translateLookup(err, "Post", postID)
	}
	return &post, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := newestFirst(withPostDetails(r.db.WithContext(ctx))).
		Where("posts.user_id = ?", authorID).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Omit("User", "Profile", "Category", "Likes", "Comments").Create(post).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("slug", "A post with this slug already exists.")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

// Update writes the author-editable columns of post.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "image", "description", "tags", "category_id", "status", "updated_at").
		Updates(post).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

// Delete removes the author's post along with its likes, bookmarks, comments
// and notifications.
func (r *postRepository) Delete(ctx context.Context, authorID, postID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").Where("id = ? AND user_id = ?", postID, authorID).First(&post).Error; err != nil {
			return err
		}
		dependents := []any{&models.PostLike{}, &models.Bookmark{}, &models.Comment{}, &models.Notification{}}
		for _, model := range dependents {
			if err := tx.Where("post_id = ?", postID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return translateLookup(err, "Post", postID)
	}
	cache.InvalidateCategories(ctx)
	return nil
}
