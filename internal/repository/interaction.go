package repository

import (
	"context"

	"blogapp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository toggles likes and bookmarks.
type InteractionRepository interface {
	ToggleLike(ctx context.Context, userID, postID uint) (LikeToggle, error)
	ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error)
}

// LikeToggle is the outcome of a like toggle. Notification is set only when
// this call created the like.
type LikeToggle struct {
	Liked        bool
	Notification *models.Notification
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository returns a new InteractionRepository implementation.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// ToggleLike removes the caller's like if present, otherwise inserts it and
// records a Like notification for the post's author, all in one transaction.
// The composite key keeps concurrent toggles from producing two likes.
func (r *interactionRepository) ToggleLike(ctx context.Context, userID, postID uint) (LikeToggle, error) {
	var out LikeToggle
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, postID).Error; err != nil {
			return err
		}

		removed := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			return nil
		}

		out.Liked = true
		inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostLike{PostID: postID, UserID: userID})
		if inserted.Error != nil {
			return inserted.Error
		}
		if inserted.RowsAffected == 0 {
			return nil
		}

		pid := post.ID
		n := &models.Notification{UserID: post.UserID, PostID: &pid, Type: models.NotificationLike}
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		out.Notification = n
		return nil
	})
	if err != nil {
		return LikeToggle{}, translateLookup(err, "Post", postID)
	}
	return out, nil
}

// ToggleBookmark removes the caller's bookmark if present, otherwise adds it.
// It reports whether the post is bookmarked afterwards.
func (r *interactionRepository) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		removed := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Bookmark{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			return nil
		}

		added = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Bookmark{UserID: userID, PostID: postID, Type: models.BookmarkType}).Error
	})
	if err != nil {
		return false, translateLookup(err, "Post", postID)
	}
	return added, nil
}
