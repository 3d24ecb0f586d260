package consumer

import (
	"context"
	"fmt"

	"wisefido-sedentary/internal/hub"
	"wisefido-sedentary/internal/metrics"

	"go.uber.org/zap"
)

// PersistenceSink writes every hub event to storage. Failed writes are logged and dropped.
type PersistenceSink struct {
	hub    *hub.Hub
	store  EventStore
	logger *zap.Logger
	sub    *hub.Subscription
}

func NewPersistenceSink(h *hub.Hub, store EventStore, logger *zap.Logger) *PersistenceSink {
	return &PersistenceSink{
		hub:    h,
		store:  store,
		logger: logger,
	}
}

// Attach subscribes to the hub so events published before Run starts are kept.
func (p *PersistenceSink) Attach() error {
	if p.sub != nil {
		return nil
	}
	sub, err := p.hub.Subscribe()
	if err != nil {
		return fmt.Errorf("persistence sink: %w", err)
	}
	p.sub = sub
	return nil
}

// Run consumes events until ctx is cancelled or the hub closes.
func (p *PersistenceSink) Run(ctx context.Context) error {
	if err := p.Attach(); err != nil {
		return err
	}
	defer p.sub.Close()

	p.logger.Info("Persistence sink started")
	for {
		ev, err := p.sub.Recv(ctx)
		if err != nil {
			if endOfStream(ctx, err) {
				stats := p.sub.Stats()
				p.logger.Info("Persistence sink stopped",
					zap.Uint64("delivered", stats.Delivered),
					zap.Uint64("dropped", stats.Dropped),
				)
				return nil
			}
			return err
		}
		reportLag(p.sub, "persistence", p.logger)

		if _, err := p.store.Insert(ctx, ev); err != nil {
			metrics.PersistenceErrors.Inc()
			p.logger.Error("Failed to persist event",
				zap.String("state", string(ev.State)),
				zap.Uint64("timer", ev.Timer),
				zap.Error(err),
			)
		}
	}
}
