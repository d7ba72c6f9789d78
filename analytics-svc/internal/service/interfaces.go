package service

import (
	"context"

	"bistro-backend/analytics-svc/internal/domain"
)

type AnalyticsInterface interface {
	TopToday(ctx context.Context) ([]domain.ItemAnalytics, error)
	TopAllTime(ctx context.Context) ([]domain.ItemAnalytics, error)
	OrderStatusCounts(ctx context.Context) (map[string]int64, error)
	BookingsPerDate(ctx context.Context) (map[string]int64, error)
}

var _ AnalyticsInterface = (*AnalyticsService)(nil)
