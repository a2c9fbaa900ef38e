package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yuzvak/storefront-service/internal/config"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
)

type Connection struct {
	client *redis.Client
}

func NewConnection(ctx context.Context, cfg config.RedisConfig) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 50,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Connection{
		client: monitoring.InstrumentRedisClient(client),
	}, nil
}

// NewConnectionFromClient wraps an existing client without pinging it.
func NewConnectionFromClient(client *redis.Client) *Connection {
	return &Connection{client: client}
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Connection) Close() error {
	return c.client.Close()
}

func (c *Connection) GetClient() *redis.Client {
	return c.client
}
