package consumer

import (
	"context"
	"fmt"

	"wisefido-sedentary/internal/hub"
	"wisefido-sedentary/internal/metrics"
	"wisefido-sedentary/internal/models"

	"go.uber.org/zap"
)

// Sender delivers one event to a live observer.
type Sender interface {
	Send(ev models.ProcessedEvent) error
}

// LiveSink streams history followed by live events to observers.
type LiveSink struct {
	hub    *hub.Hub
	cache  EventCache
	logger *zap.Logger
}

// NewLiveSink creates the sink; cache may be nil to skip replay.
func NewLiveSink(h *hub.Hub, cache EventCache, logger *zap.Logger) *LiveSink {
	return &LiveSink{
		hub:    h,
		cache:  cache,
		logger: logger,
	}
}

// Stream replays the cached history oldest first, then forwards live events until
// a send fails, ctx is cancelled or the hub closes. Events published between the
// replay and the subscription are not seen by this observer.
func (l *LiveSink) Stream(ctx context.Context, sender Sender) error {
	metrics.LiveSinks.Inc()
	defer metrics.LiveSinks.Dec()

	if l.cache != nil {
		history, err := l.cache.Recent(ctx)
		if err != nil {
			l.logger.Warn("Failed to load history for observer, streaming live only", zap.Error(err))
		}
		for _, ev := range history {
			if err := sender.Send(ev); err != nil {
				return fmt.Errorf("replay to observer: %w", err)
			}
		}
	}

	sub, err := l.hub.Subscribe()
	if err != nil {
		return fmt.Errorf("live sink: %w", err)
	}
	defer sub.Close()

	for {
		ev, err := sub.Recv(ctx)
		if err != nil {
			if endOfStream(ctx, err) {
				return nil
			}
			return err
		}
		reportLag(sub, "live", l.logger)

		if err := sender.Send(ev); err != nil {
			return fmt.Errorf("send to observer: %w", err)
		}
	}
}
