package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// ErrMaxRetries is returned when a source cannot be opened within the retry budget.
var ErrMaxRetries = errors.New("max retries exceeded")

// ReconnectConfig configures exponential backoff between open attempts.
type ReconnectConfig struct {
	MaxRetries    int           // retries after the first failed attempt (default: 5)
	RetryDelay    time.Duration // initial delay (default: 1s)
	MaxRetryDelay time.Duration // delay cap (default: 30s)
}

func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:    5,
		RetryDelay:    1 * time.Second,
		MaxRetryDelay: 30 * time.Second,
	}
}

// OpenWithRetry opens src, retrying with exponential backoff.
// With defaults the waits are 1s, 2s, 4s, 8s, 16s.
func OpenWithRetry(ctx context.Context, src Source, cfg ReconnectConfig, logger *zap.Logger) (io.ReadCloser, error) {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rc, err := src.Open(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("Frame source reconnected",
					zap.String("source", src.Name()),
					zap.Int("attempts", attempt+1),
				)
			}
			return rc, nil
		}

		attempt++
		if attempt > cfg.MaxRetries {
			return nil, fmt.Errorf("%w opening %s (%d attempts): %v", ErrMaxRetries, src.Name(), attempt, err)
		}

		delay := calculateBackoff(attempt, cfg)
		logger.Warn("Failed to open frame source, retrying",
			zap.String("source", src.Name()),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", cfg.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// calculateBackoff returns RetryDelay * 2^(attempt-1), capped at MaxRetryDelay.
func calculateBackoff(attempt int, cfg ReconnectConfig) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 32 {
		return cfg.MaxRetryDelay
	}
	delay := cfg.RetryDelay * time.Duration(1<<uint(attempt-1))
	if delay > cfg.MaxRetryDelay || delay <= 0 {
		delay = cfg.MaxRetryDelay
	}
	return delay
}
