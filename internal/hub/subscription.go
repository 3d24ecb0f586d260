package hub

import (
	"context"
	"sync"
	"sync/atomic"

	"wisefido-sedentary/internal/models"
)

// SubscriberStats tracks delivery for one subscriber.
type SubscriberStats struct {
	Delivered uint64
	Dropped   uint64
}

// Subscription is one consumer's view of the hub.
type Subscription struct {
	id  uint64
	hub *Hub

	mu     sync.Mutex
	queue  []models.ProcessedEvent // ring buffer
	head   int
	count  int
	closed bool

	notify chan struct{}

	delivered atomic.Uint64
	dropped   atomic.Uint64
	lagged    atomic.Uint64 // drops not yet reported through Lagged
}

func newSubscription(id uint64, h *Hub, size int) *Subscription {
	return &Subscription{
		id:     id,
		hub:    h,
		queue:  make([]models.ProcessedEvent, size),
		notify: make(chan struct{}, 1),
	}
}

// ID returns the subscriber id.
func (s *Subscription) ID() uint64 {
	return s.id
}

// offer enqueues ev, dropping the oldest queued event when full.
func (s *Subscription) offer(ev models.ProcessedEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.count == len(s.queue) {
		s.queue[s.head] = ev
		s.head = (s.head + 1) % len(s.queue)
		s.dropped.Add(1)
		s.lagged.Add(1)
	} else {
		s.queue[(s.head+s.count)%len(s.queue)] = ev
		s.count++
	}
	s.mu.Unlock()

	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Recv returns the next queued event, blocking until one arrives, ctx is done or the
// subscription is closed. Queued events are still delivered after a hub Close.
func (s *Subscription) Recv(ctx context.Context) (models.ProcessedEvent, error) {
	for {
		s.mu.Lock()
		if s.count > 0 {
			ev := s.queue[s.head]
			s.queue[s.head] = models.ProcessedEvent{}
			s.head = (s.head + 1) % len(s.queue)
			s.count--
			s.mu.Unlock()

			s.delivered.Add(1)
			return ev, nil
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return models.ProcessedEvent{}, ErrSubscriptionClosed
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return models.ProcessedEvent{}, ctx.Err()
		}
	}
}

// Lagged returns the number of events dropped for this subscriber since the previous call.
func (s *Subscription) Lagged() uint64 {
	return s.lagged.Swap(0)
}

// Stats returns cumulative delivery counters.
func (s *Subscription) Stats() SubscriberStats {
	return SubscriberStats{
		Delivered: s.delivered.Load(),
		Dropped:   s.dropped.Load(),
	}
}

// Close detaches the subscriber from the hub. Other subscribers are unaffected.
func (s *Subscription) Close() {
	s.hub.remove(s.id)
	s.markClosed()
}

func (s *Subscription) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}
