package redis

import (
	"context"
	"testing"

	"wisefido-sedentary/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	defer Close(client)

	require.NoError(t, Ping(context.Background(), client))
}

func TestNewRedisClient_PingUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client := NewRedisClient(&config.RedisConfig{Addr: addr})
	defer Close(client)

	assert.Error(t, Ping(context.Background(), client))
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
