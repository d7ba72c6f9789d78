package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bistro-backend/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps short-lived menu item snapshots for the cart view.
// Checkout never reads from it.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func MenuItemKey(id int64) string {
	return "menu:item:" + strconv.FormatInt(id, 10)
}

func (c *RedisCache) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	data, err := c.Client.Get(ctx, MenuItemKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var item domain.MenuItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("unmarshal menu item failed: %w", err)
	}
	return &item, nil
}

func (c *RedisCache) Set(ctx context.Context, item *domain.MenuItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal menu item failed: %w", err)
	}
	if err := c.Client.Set(ctx, MenuItemKey(item.ID), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, id int64) error {
	if err := c.Client.Del(ctx, MenuItemKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
