package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"bistro-backend/analytics-svc/internal/domain"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Keys written by agg-svc.
const (
	itemsDailyPrefix = "analytics:items:daily:"
	itemsAllTimeKey  = "analytics:items:alltime"
	itemNamesKey     = "analytics:items:names"
	orderStatusKey   = "analytics:orders:status"
	bookingsKey      = "analytics:bookings"
)

const topLimit = 10

// AnalyticsService answers from the Redis counters and falls back to
// Postgres when they are empty or unreachable.
type AnalyticsService struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewAnalyticsService(db *sql.DB, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{
		db:  db,
		rdb: rdb,
	}
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func (s *AnalyticsService) TopToday(ctx context.Context) ([]domain.ItemAnalytics, error) {
	items, err := s.topFromRedis(ctx, itemsDailyPrefix+today())
	if err == nil && len(items) > 0 {
		return items, nil
	}
	if err != nil {
		zap.L().Warn("top today from redis failed, using postgres", zap.Error(err))
	}

	start, _ := time.Parse("2006-01-02", today())
	return s.topFromDB(ctx, `
		SELECT ol.menu_item_id, MAX(ol.name), SUM(ol.quantity) AS score
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE o.created_at >= $1
		GROUP BY ol.menu_item_id
		ORDER BY score DESC, ol.menu_item_id
		LIMIT $2`, start, topLimit)
}

func (s *AnalyticsService) TopAllTime(ctx context.Context) ([]domain.ItemAnalytics, error) {
	items, err := s.topFromRedis(ctx, itemsAllTimeKey)
	if err == nil && len(items) > 0 {
		return items, nil
	}
	if err != nil {
		zap.L().Warn("top all time from redis failed, using postgres", zap.Error(err))
	}

	return s.topFromDB(ctx, `
		SELECT menu_item_id, MAX(name), SUM(quantity) AS score
		FROM order_lines
		GROUP BY menu_item_id
		ORDER BY score DESC, menu_item_id
		LIMIT $1`, topLimit)
}

func (s *AnalyticsService) topFromRedis(ctx context.Context, key string) ([]domain.ItemAnalytics, error) {
	result, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, topLimit-1).Result()
	if err != nil {
		return nil, err
	}

	items := make([]domain.ItemAnalytics, 0, len(result))
	members := make([]string, 0, len(result))
	for _, z := range result {
		member, _ := z.Member.(string)
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		items = append(items, domain.ItemAnalytics{MenuItemID: id, Score: z.Score})
		members = append(members, member)
	}
	if len(items) == 0 {
		return items, nil
	}

	names, err := s.rdb.HMGet(ctx, itemNamesKey, members...).Result()
	if err != nil {
		return nil, err
	}
	var unnamed []int64
	for i := range items {
		if name, ok := names[i].(string); ok {
			items[i].Name = name
		} else {
			unnamed = append(unnamed, items[i].MenuItemID)
		}
	}
	if len(unnamed) > 0 {
		s.fillNames(ctx, items, unnamed)
	}
	return items, nil
}

// fillNames looks up names the counters do not carry. Lookup failures leave
// the name empty.
func (s *AnalyticsService) fillNames(ctx context.Context, items []domain.ItemAnalytics, ids []int64) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM menu_items WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		zap.L().Warn("menu item name lookup failed", zap.Error(err))
		return
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			zap.L().Warn("scan menu item name", zap.Error(err))
			return
		}
		names[id] = name
	}
	for i := range items {
		if name, ok := names[items[i].MenuItemID]; ok && items[i].Name == "" {
			items[i].Name = name
		}
	}
}

func (s *AnalyticsService) topFromDB(ctx context.Context, query string, args ...any) ([]domain.ItemAnalytics, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top items: %w", err)
	}
	defer rows.Close()

	items := []domain.ItemAnalytics{}
	for rows.Next() {
		var item domain.ItemAnalytics
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Score); err != nil {
			return nil, fmt.Errorf("scan top item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *AnalyticsService) OrderStatusCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(domain.OrderStatuses))
	for _, status := range domain.OrderStatuses {
		counts[status] = 0
	}

	cached, err := s.countsFromRedis(ctx, orderStatusKey)
	if err == nil && len(cached) > 0 {
		for status, n := range cached {
			counts[status] = n
		}
		return counts, nil
	}
	if err != nil {
		zap.L().Warn("order status counts from redis failed, using postgres", zap.Error(err))
	}

	fromDB, err := s.countsFromDB(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	for status, n := range fromDB {
		counts[status] = n
	}
	return counts, nil
}

// BookingsPerDate counts bookings that still hold their slot, keyed by
// booking date. Dates whose count dropped to zero are omitted.
func (s *AnalyticsService) BookingsPerDate(ctx context.Context) (map[string]int64, error) {
	cached, err := s.countsFromRedis(ctx, bookingsKey)
	if err == nil && len(cached) > 0 {
		for date, n := range cached {
			if n <= 0 {
				delete(cached, date)
			}
		}
		return cached, nil
	}
	if err != nil {
		zap.L().Warn("bookings per date from redis failed, using postgres", zap.Error(err))
	}

	return s.countsFromDB(ctx, "SELECT date, COUNT(*) FROM bookings WHERE status <> 'Cancelled' GROUP BY date")
}

func (s *AnalyticsService) countsFromRedis(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("counter %s[%s]: %w", key, field, err)
		}
		counts[field] = n
	}
	return counts, nil
}

func (s *AnalyticsService) countsFromDB(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
