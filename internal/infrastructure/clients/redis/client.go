package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/studentscore/pkg/config"
)

// Client represents a Redis client
type Client struct {
	client *redis.Client
}

// NewClient creates a new Redis client. go-redis dials lazily, so the
// server does not have to be up yet; use Ping to check it.
func NewClient(cfg *config.RedisConfig) *Client {
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

// Wrap adapts an existing go-redis client
func Wrap(client *redis.Client) *Client {
	return &Client{client: client}
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifies the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
