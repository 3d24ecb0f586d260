// Package hub distributes processed events to any number of live consumers.
//
// Every subscriber owns a bounded queue. Publish never waits for a consumer: when a
// queue is full its oldest undelivered event is dropped and counted as lag for that
// subscriber only. Delivery is at-most-once and ordered within what is delivered.
package hub

import (
	"errors"
	"sync"
	"sync/atomic"

	"wisefido-sedentary/internal/models"

	"go.uber.org/zap"
)

var (
	ErrHubClosed          = errors.New("hub: closed")
	ErrSubscriptionClosed = errors.New("hub: subscription closed")
)

// DefaultQueueSize is the per-subscriber queue capacity.
const DefaultQueueSize = 100

// Hub fans events out to subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]*Subscription
	nextID      uint64
	closed      bool

	queueSize int
	published atomic.Uint64
	logger    *zap.Logger
}

// New creates a hub whose subscribers buffer up to queueSize events each.
func New(queueSize int, logger *zap.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{
		subscribers: make(map[uint64]*Subscription),
		queueSize:   queueSize,
		logger:      logger,
	}
}

// Subscribe attaches a new consumer. It only sees events published after this call.
func (h *Hub) Subscribe() (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	h.nextID++
	sub := newSubscription(h.nextID, h, h.queueSize)
	h.subscribers[sub.id] = sub

	h.logger.Debug("Hub subscriber attached",
		zap.Uint64("subscriber_id", sub.id),
		zap.Int("subscribers", len(h.subscribers)),
	)
	return sub, nil
}

// Publish delivers ev to every current subscriber without blocking on any of them.
func (h *Hub) Publish(ev models.ProcessedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	h.published.Add(1)
	for _, sub := range h.subscribers {
		sub.offer(ev)
	}
}

// Subscribers returns the number of attached consumers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Published returns the number of events published since creation.
func (h *Hub) Published() uint64 {
	return h.published.Load()
}

// Close detaches all subscribers; pending Recv calls return ErrSubscriptionClosed
// once their queues are drained. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.subscribers
	h.subscribers = nil
	h.mu.Unlock()

	for _, sub := range subs {
		sub.markClosed()
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers == nil {
		return
	}
	if _, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		h.logger.Debug("Hub subscriber detached",
			zap.Uint64("subscriber_id", id),
			zap.Int("subscribers", len(h.subscribers)),
		)
	}
}
