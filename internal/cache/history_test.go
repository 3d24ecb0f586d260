package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"wisefido-sedentary/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestCache(t *testing.T, capacity int) (*miniredis.Miniredis, *HistoryCache) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = redisClient.Close() })

	return mr, NewHistoryCache(redisClient, "sensor_history", capacity, zap.NewNop())
}

func event(i int) models.ProcessedEvent {
	return models.ProcessedEvent{
		State:     models.StateSedentary,
		Timer:     uint64(i),
		Value:     0.01,
		Alert:     i >= 1200,
		Timestamp: fmt.Sprintf("10:%02d:%02d", i/60%60, i%60),
	}
}

func TestHistoryCache_KeepsMostRecentInChronologicalOrder(t *testing.T) {
	_, c := setupTestCache(t, 100)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		require.NoError(t, c.Push(ctx, event(i)))
	}

	events, err := c.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, events, 100)
	for i, ev := range events {
		assert.Equal(t, event(50+i), ev)
	}

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
}

func TestHistoryCache_RangeIsNewestFirst(t *testing.T) {
	_, c := setupTestCache(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Push(ctx, event(i)))
	}

	raw, err := c.Range(ctx)
	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.Contains(t, raw[0], `"timer":4`)
	assert.Contains(t, raw[2], `"timer":2`)
}

func TestHistoryCache_EmptyRecent(t *testing.T) {
	_, c := setupTestCache(t, 100)

	events, err := c.Recent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestHistoryCache_SkipsUndecodableEntries(t *testing.T) {
	mr, c := setupTestCache(t, 100)
	ctx := context.Background()

	require.NoError(t, c.Push(ctx, event(1)))
	_, err := mr.Lpush("sensor_history", "not json")
	require.NoError(t, err)
	require.NoError(t, c.Push(ctx, event(2)))

	events, err := c.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ProcessedEvent{event(1), event(2)}, events)
}

func TestHistoryCache_ConcurrentPushNeverExceedsCapacity(t *testing.T) {
	_, c := setupTestCache(t, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				assert.NoError(t, c.Push(ctx, event(w*1000+i)))
			}
		}(w)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			raw, err := c.Range(ctx)
			assert.NoError(t, err)
			assert.LessOrEqual(t, len(raw), 10)
		}
	}()
	wg.Wait()

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestHistoryCache_Unreachable(t *testing.T) {
	mr, c := setupTestCache(t, 100)
	mr.Close()

	assert.Error(t, c.Push(context.Background(), event(1)))
	_, err := c.Recent(context.Background())
	assert.Error(t, err)
}

func TestNewHistoryCache_Defaults(t *testing.T) {
	c := NewHistoryCache(nil, "", 0, zap.NewNop())

	assert.Equal(t, DefaultCapacity, c.Capacity())
	assert.Equal(t, DefaultKey, c.key)
}
