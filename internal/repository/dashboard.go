package repository

import (
	"context"

	"blogapp/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository computes per-author rollups.
type DashboardRepository interface {
	Stats(ctx context.Context, authorID uint) (*models.DashboardStats, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository returns a new DashboardRepository implementation.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

const dashboardStatsSQL = `SELECT
	(SELECT COALESCE(SUM(posts.view), 0) FROM posts WHERE user_id = @author) AS views,
	(SELECT COUNT(*) FROM posts WHERE user_id = @author) AS posts,
	(SELECT COUNT(*) FROM post_likes JOIN posts ON posts.id = post_likes.post_id WHERE posts.user_id = @author) AS likes,
	(SELECT COUNT(*) FROM bookmarks JOIN posts ON posts.id = bookmarks.post_id WHERE posts.user_id = @author) AS bookmarks`

// Stats sums views and counts posts, like relations and bookmarks over the
// author's posts. Authors without posts get zeros.
func (r *dashboardRepository) Stats(ctx context.Context, authorID uint) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := r.db.WithContext(ctx).
		Raw(dashboardStatsSQL, map[string]any{"author": authorID}).
		Scan(&stats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &stats, nil
}
