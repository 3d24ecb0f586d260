package consumer

import (
	"context"
	"fmt"

	rediscommon "wisefido-sedentary/internal/common/redis"
	"wisefido-sedentary/internal/hub"
	"wisefido-sedentary/internal/metrics"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StreamSink republishes hub events to a Redis stream for downstream services.
type StreamSink struct {
	hub    *hub.Hub
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
	sub    *hub.Subscription
}

func NewStreamSink(h *hub.Hub, client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *StreamSink {
	return &StreamSink{
		hub:    h,
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger,
	}
}

// Attach subscribes to the hub.
func (s *StreamSink) Attach() error {
	if s.sub != nil {
		return nil
	}
	sub, err := s.hub.Subscribe()
	if err != nil {
		return fmt.Errorf("stream sink: %w", err)
	}
	s.sub = sub
	return nil
}

// Run publishes events until ctx is cancelled or the hub closes. Publish failures are logged.
func (s *StreamSink) Run(ctx context.Context) error {
	if err := s.Attach(); err != nil {
		return err
	}
	defer s.sub.Close()

	s.logger.Info("Stream sink started", zap.String("stream", s.stream))
	for {
		ev, err := s.sub.Recv(ctx)
		if err != nil {
			if endOfStream(ctx, err) {
				return nil
			}
			return err
		}
		reportLag(s.sub, "stream", s.logger)

		if _, err := rediscommon.PublishJSONToStream(ctx, s.client, s.stream, s.maxLen, ev); err != nil {
			metrics.StreamPublishErrors.Inc()
			s.logger.Warn("Failed to publish event to stream",
				zap.String("stream", s.stream),
				zap.Error(err),
			)
		}
	}
}
