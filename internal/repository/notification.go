package repository

import (
	"context"

	"blogapp/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository reads and acknowledges notifications.
type NotificationRepository interface {
	ListUnseen(ctx context.Context, userID uint) ([]models.Notification, error)
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	MarkSeen(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) ListUnseen(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.WithContext(ctx).
		Preload("Post").
		Where("user_id = ? AND seen = ?", userID, false).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translateLookup(err, "Notification", id)
	}
	return &n, nil
}

// MarkSeen sets seen=true. It never clears the flag, so repeats are no-ops.
func (r *notificationRepository) MarkSeen(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("seen", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
