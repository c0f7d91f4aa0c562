package repository

import (
	"context"

	"blogapp/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Notification, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	SetReply(ctx context.Context, id uint, reply string) error
	ListForAuthor(ctx context.Context, authorID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create stores the comment and a Comment notification for the post's author
// in one transaction, and returns the notification.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Notification, error) {
	var n *models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, comment.PostID).Error; err != nil {
			return err
		}
		if err := tx.Omit("Post").Create(comment).Error; err != nil {
			return err
		}
		pid := post.ID
		n = &models.Notification{UserID: post.UserID, PostID: &pid, Type: models.NotificationComment}
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, translateLookup(err, "Post", comment.PostID)
	}
	return n, nil
}

// GetByID loads the comment with its post, which carries the author id.
func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Post").First(&comment, id).Error; err != nil {
		return nil, translateLookup(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) SetReply(ctx context.Context, id uint, reply string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("reply", reply)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

// ListForAuthor returns comments on any of the author's posts, newest first.
func (r *commentRepository) ListForAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.user_id = ?", authorID).
		Preload("Post").
		Order("comments.created_at DESC").
		Order("comments.id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
