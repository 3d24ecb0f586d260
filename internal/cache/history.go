// Package cache keeps the bounded reconnect history in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"wisefido-sedentary/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	DefaultKey      = "sensor_history"
	DefaultCapacity = 100
)

// HistoryCache is a Redis list holding the most recent events, newest first.
type HistoryCache struct {
	client   *redis.Client
	key      string
	capacity int
	logger   *zap.Logger
}

// NewHistoryCache creates a cache on key bounded to capacity entries.
func NewHistoryCache(client *redis.Client, key string, capacity int, logger *zap.Logger) *HistoryCache {
	if key == "" {
		key = DefaultKey
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &HistoryCache{
		client:   client,
		key:      key,
		capacity: capacity,
		logger:   logger,
	}
}

// Capacity returns the maximum number of retained events.
func (c *HistoryCache) Capacity() int {
	return c.capacity
}

// Push stores ev as the newest entry and trims the list to capacity.
// LPUSH and LTRIM run in one MULTI/EXEC so readers never see the list over capacity.
func (c *HistoryCache) Push(ctx context.Context, ev models.ProcessedEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, c.key, data)
		pipe.LTrim(ctx, c.key, 0, int64(c.capacity-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push to history %s: %w", c.key, err)
	}
	return nil
}

// Range returns up to capacity raw entries, newest first.
func (c *HistoryCache) Range(ctx context.Context) ([]string, error) {
	raw, err := c.client.LRange(ctx, c.key, 0, int64(c.capacity-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history %s: %w", c.key, err)
	}
	return raw, nil
}

// Recent returns the retained events in chronological order, ready for replay.
// Entries that fail to decode are skipped.
func (c *HistoryCache) Recent(ctx context.Context) ([]models.ProcessedEvent, error) {
	raw, err := c.Range(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]models.ProcessedEvent, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var ev models.ProcessedEvent
		if err := json.Unmarshal([]byte(raw[i]), &ev); err != nil {
			c.logger.Warn("Skipping undecodable history entry",
				zap.String("key", c.key),
				zap.Error(err),
			)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Len returns the current list length.
func (c *HistoryCache) Len(ctx context.Context) (int64, error) {
	n, err := c.client.LLen(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read history length %s: %w", c.key, err)
	}
	return n, nil
}
