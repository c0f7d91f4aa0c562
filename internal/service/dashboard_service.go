package service

import (
	"context"

	"blogapp/internal/models"
	"blogapp/internal/repository"
)

type DashboardService struct {
	dashboard repository.DashboardRepository
}

func NewDashboardService(dashboard repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboard: dashboard}
}

// Stats returns the author's rollup as a one-element list, the shape clients expect.
func (s *DashboardService) Stats(ctx context.Context, callerID, userID uint) ([]models.DashboardStats, error) {
	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	stats, err := s.dashboard.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []models.DashboardStats{*stats}, nil
}
