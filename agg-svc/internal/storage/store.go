package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bistro-backend/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	ItemsAllTimeKey = "analytics:items:alltime"
	ItemNamesKey    = "analytics:items:names"
	OrderStatusKey  = "analytics:orders:status"
	BookingsKey     = "analytics:bookings"

	itemsDailyPrefix = "analytics:items:daily:"
	processedPrefix  = "analytics:processed:"

	// DailyRetention bounds both the per-day leaderboards and the dedup markers.
	DailyRetention = 7 * 24 * time.Hour
)

func ItemsDailyKey(day string) string {
	return itemsDailyPrefix + day
}

// Store keeps the analytics counters in Redis. Every Record call applies its
// counters and the event's dedup marker in one MULTI block.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Seen(ctx context.Context, dedupKey string) (bool, error) {
	n, err := s.rdb.Exists(ctx, processedPrefix+dedupKey).Result()
	if err != nil {
		return false, fmt.Errorf("check processed marker: %w", err)
	}
	return n > 0, nil
}

func (s *Store) RecordOrderPlaced(ctx context.Context, dedupKey, day string, items []domain.EventItem) error {
	dailyKey := ItemsDailyKey(day)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			member := strconv.FormatInt(item.MenuItemID, 10)
			pipe.ZIncrBy(ctx, dailyKey, float64(item.Quantity), member)
			pipe.ZIncrBy(ctx, ItemsAllTimeKey, float64(item.Quantity), member)
			if item.Name != "" {
				pipe.HSet(ctx, ItemNamesKey, member, item.Name)
			}
		}
		if len(items) > 0 {
			pipe.Expire(ctx, dailyKey, DailyRetention)
		}
		pipe.HIncrBy(ctx, OrderStatusKey, domain.OrderPending, 1)
		pipe.Set(ctx, processedPrefix+dedupKey, 1, DailyRetention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record order placed: %w", err)
	}
	return nil
}

// RecordOrderStatusChange moves one order from the from-status count to the
// to-status count. An empty from only increments.
func (s *Store) RecordOrderStatusChange(ctx context.Context, dedupKey, from, to string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if from != "" {
			pipe.HIncrBy(ctx, OrderStatusKey, from, -1)
		}
		pipe.HIncrBy(ctx, OrderStatusKey, to, 1)
		pipe.Set(ctx, processedPrefix+dedupKey, 1, DailyRetention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record order status change: %w", err)
	}
	return nil
}

func (s *Store) RecordBooking(ctx context.Context, dedupKey, date string, delta int64) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, BookingsKey, date, delta)
		pipe.Set(ctx, processedPrefix+dedupKey, 1, DailyRetention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record booking: %w", err)
	}
	return nil
}
