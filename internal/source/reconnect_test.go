package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakySource struct {
	failures int32
	opens    atomic.Int32
}

func (f *flakySource) Name() string { return "flaky" }

func (f *flakySource) Open(context.Context) (io.ReadCloser, error) {
	n := f.opens.Add(1)
	if n <= f.failures {
		return nil, errors.New("device not ready")
	}
	return io.NopCloser(strings.NewReader("{}\n")), nil
}

func fastRetry(maxRetries int) ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:    maxRetries,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 2 * time.Millisecond,
	}
}

func TestCalculateBackoff_Default(t *testing.T) {
	cfg := DefaultReconnectConfig()

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, want := range expected {
		assert.Equal(t, want, calculateBackoff(i+1, cfg), "attempt %d", i+1)
	}
	assert.Equal(t, 30*time.Second, calculateBackoff(100, cfg))
}

func TestOpenWithRetry_SucceedsAfterFailures(t *testing.T) {
	src := &flakySource{failures: 2}

	rc, err := OpenWithRetry(context.Background(), src, fastRetry(5), zap.NewNop())
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, int32(3), src.opens.Load())
}

func TestOpenWithRetry_MaxRetries(t *testing.T) {
	src := &flakySource{failures: 100}

	_, err := OpenWithRetry(context.Background(), src, fastRetry(3), zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaxRetries))
	assert.Equal(t, int32(4), src.opens.Load())
}

func TestOpenWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	src := &flakySource{failures: 100}
	cfg := ReconnectConfig{MaxRetries: 5, RetryDelay: time.Hour, MaxRetryDelay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := OpenWithRetry(ctx, src, cfg, zap.NewNop())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), src.opens.Load())
}
