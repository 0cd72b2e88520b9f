package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func rapKey(itemID int64) string {
	return fmt.Sprintf("rap:item:%d", itemID)
}

// GetRAP reads the cached average for an item. The second return reports
// whether a cached value was present.
func (c *Client) GetRAP(ctx context.Context, itemID int64) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, rapKey(itemID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("rap cache read failed: %w", err)
	}
	return val, true, nil
}

// SetRAP caches a computed average with the given TTL
func (c *Client) SetRAP(ctx context.Context, itemID, rap int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, rapKey(itemID), rap, ttl).Err()
}

// InvalidateRAP drops the cached average, forcing the next lookup back to
// the store's freshness window.
func (c *Client) InvalidateRAP(ctx context.Context, itemID int64) error {
	return c.rdb.Del(ctx, rapKey(itemID)).Err()
}
