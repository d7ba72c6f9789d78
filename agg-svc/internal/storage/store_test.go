package storage

import (
	"context"
	"testing"

	"bistro-backend/agg-svc/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client), mr, client
}

func TestStore_RecordOrderPlaced(t *testing.T) {
	store, mr, client := setupTestStore(t)
	ctx := context.Background()

	items := []domain.EventItem{
		{MenuItemID: 3, Name: "Soup", Quantity: 2},
		{MenuItemID: 4, Name: "Bread", Quantity: 1},
	}
	require.NoError(t, store.RecordOrderPlaced(ctx, "order:1:order_placed:Pending", "2024-06-01", items))
	require.NoError(t, store.RecordOrderPlaced(ctx, "order:2:order_placed:Pending", "2024-06-01", items[:1]))

	score, err := client.ZScore(ctx, ItemsDailyKey("2024-06-01"), "3").Result()
	require.NoError(t, err)
	assert.Equal(t, 4.0, score)

	score, err = client.ZScore(ctx, ItemsAllTimeKey, "4").Result()
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	assert.Equal(t, "Soup", mr.HGet(ItemNamesKey, "3"))
	assert.Equal(t, "2", mr.HGet(OrderStatusKey, "Pending"))
	assert.Equal(t, DailyRetention, mr.TTL(ItemsDailyKey("2024-06-01")))

	seen, err := store.Seen(ctx, "order:1:order_placed:Pending")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.Seen(ctx, "order:3:order_placed:Pending")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestStore_RecordOrderStatusChange(t *testing.T) {
	store, mr, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordOrderPlaced(ctx, "order:1:order_placed:Pending", "2024-06-01", nil))
	require.NoError(t, store.RecordOrderStatusChange(ctx, "order:1:order_status_changed:Preparing", "Pending", "Preparing"))

	assert.Equal(t, "0", mr.HGet(OrderStatusKey, "Pending"))
	assert.Equal(t, "1", mr.HGet(OrderStatusKey, "Preparing"))

	require.NoError(t, store.RecordOrderStatusChange(ctx, "order:2:order_status_changed:Delivered", "", "Delivered"))
	assert.Equal(t, "1", mr.HGet(OrderStatusKey, "Delivered"))
	assert.Equal(t, "1", mr.HGet(OrderStatusKey, "Preparing"))
}

func TestStore_RecordBooking(t *testing.T) {
	store, mr, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordBooking(ctx, "booking:1:booking_created:Pending", "2024-06-01", 1))
	require.NoError(t, store.RecordBooking(ctx, "booking:2:booking_created:Pending", "2024-06-01", 1))
	require.NoError(t, store.RecordBooking(ctx, "booking:1:booking_status_changed:Cancelled", "2024-06-01", -1))

	assert.Equal(t, "1", mr.HGet(BookingsKey, "2024-06-01"))
}

func TestStore_ServerDown(t *testing.T) {
	store, mr, _ := setupTestStore(t)
	mr.Close()

	_, err := store.Seen(context.Background(), "order:1:order_placed:Pending")
	assert.Error(t, err)
	assert.Error(t, store.RecordBooking(context.Background(), "booking:1:booking_created:Pending", "2024-06-01", 1))
}
