package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client for the inventory snapshot
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

// SetSnapshot writes the snapshot availability for a SKU
func (c *Client) SetSnapshot(ctx context.Context, sku string, available int) error {
	return c.rdb.Set(ctx, snapshotKey(sku), available, 0).Err()
}

// GetSnapshot reads the snapshot availability for a SKU.
// Returns found=false when no snapshot record exists.
func (c *Client) GetSnapshot(ctx context.Context, sku string) (available int, found bool, err error) {
	val, err := c.rdb.Get(ctx, snapshotKey(sku)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("malformed snapshot value for %s: %w", sku, err)
	}
	return n, true, nil
}

// SyncSnapshot replaces the snapshot with the given SKU -> available map
func (c *Client) SyncSnapshot(ctx context.Context, snapshot map[string]int) error {
	pipe := c.rdb.Pipeline()
	for sku, available := range snapshot {
		pipe.Set(ctx, snapshotKey(sku), available, 0)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func snapshotKey(sku string) string {
	return fmt.Sprintf("stock-snapshot:%s", sku)
}
