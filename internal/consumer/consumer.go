// Package consumer runs the ingestion loop and the hub consumers that feed storage,
// live observers and the alert webhook.
package consumer

import (
	"context"
	"errors"

	"wisefido-sedentary/internal/hub"
	"wisefido-sedentary/internal/metrics"
	"wisefido-sedentary/internal/models"

	"go.uber.org/zap"
)

// EventCache is the reconnect cache as seen by ingestion and live sinks.
type EventCache interface {
	Push(ctx context.Context, ev models.ProcessedEvent) error
	Recent(ctx context.Context) ([]models.ProcessedEvent, error)
}

// EventStore persists one event.
type EventStore interface {
	Insert(ctx context.Context, ev models.ProcessedEvent) (*models.SedentaryLog, error)
}

// endOfStream reports whether a Recv error means the consumer should stop quietly.
func endOfStream(ctx context.Context, err error) bool {
	return errors.Is(err, hub.ErrSubscriptionClosed) || ctx.Err() != nil
}

func reportLag(sub *hub.Subscription, consumer string, logger *zap.Logger) {
	if lag := sub.Lagged(); lag > 0 {
		metrics.HubDropped.WithLabelValues(consumer).Add(float64(lag))
		logger.Warn("Consumer lagged, events dropped",
			zap.String("consumer", consumer),
			zap.Uint64("subscription", sub.ID()),
			zap.Uint64("dropped", lag),
		)
	}
}
