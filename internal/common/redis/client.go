package redis

import (
	"context"

	"wisefido-sedentary/internal/common/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a Redis client from config.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		MaxRetries: 3,
	})
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close closes the Redis client; nil is allowed.
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
