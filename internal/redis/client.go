package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kitchen_display/pkg/kds"

	"github.com/go-redis/redis/v8"
)

// DefaultViewTTL bounds how long a cached kitchen view lives even if no
// advance ever retires it.
const DefaultViewTTL = 30 * time.Second

type Client struct {
	rdb     *redis.Client
	viewTTL time.Duration
}

func Initialize(redisURL string, viewTTL time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewClient(rdb, viewTTL), nil
}

// NewClient wraps an existing connection.
func NewClient(rdb *redis.Client, viewTTL time.Duration) *Client {
	if viewTTL <= 0 {
		viewTTL = DefaultViewTTL
	}
	return &Client{rdb: rdb, viewTTL: viewTTL}
}

func revisionKey(branchID uint) string {
	return fmt.Sprintf("kitchen_rev:%d", branchID)
}

// Branch revisions
func (c *Client) BranchRevision(ctx context.Context, branchID uint) (int64, error) {
	rev, err := c.rdb.Get(ctx, revisionKey(branchID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get branch revision: %w", err)
	}
	return rev, nil
}

func (c *Client) BumpBranchRevision(ctx context.Context, branchID uint) error {
	return c.rdb.Incr(ctx, revisionKey(branchID)).Err()
}

// Kitchen view cache
func (c *Client) GetKitchenView(ctx context.Context, key string) ([]kds.OrderView, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get kitchen view: %w", err)
	}

	views := []kds.OrderView{}
	if err := json.Unmarshal(val, &views); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal kitchen view: %w", err)
	}
	return views, true, nil
}

func (c *Client) SetKitchenView(ctx context.Context, key string, views []kds.OrderView) error {
	jsonData, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("failed to marshal kitchen view: %w", err)
	}
	return c.rdb.Set(ctx, key, jsonData, c.viewTTL).Err()
}

// Ping reports whether the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
