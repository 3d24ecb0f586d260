package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"wisefido-sedentary/internal/cache"
	"wisefido-sedentary/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func event(i int) models.ProcessedEvent {
	return models.ProcessedEvent{
		State:     models.StateSedentary,
		Timer:     uint64(i),
		Value:     0.01,
		Timestamp: fmt.Sprintf("10:%02d:%02d", i/60%60, i%60),
	}
}

func newTestCache(t *testing.T) *cache.HistoryCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewHistoryCache(client, "sensor_history", 100, zap.NewNop())
}

type recordingSender struct {
	mu     sync.Mutex
	events []models.ProcessedEvent
	failAt int // 1-based send that fails; 0 never fails
}

func (r *recordingSender) Send(ev models.ProcessedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt > 0 && len(r.events)+1 == r.failAt {
		return errors.New("observer disconnected")
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingSender) snapshot() []models.ProcessedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ProcessedEvent(nil), r.events...)
}

type recordingStore struct {
	mu     sync.Mutex
	events []models.ProcessedEvent
	fail   bool
}

func (s *recordingStore) Insert(_ context.Context, ev models.ProcessedEvent) (*models.SedentaryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	if s.fail {
		return nil, errors.New("database unavailable")
	}
	return &models.SedentaryLog{ID: uuid.New(), State: string(ev.State), TimerSeconds: int(ev.Timer)}, nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// scriptedSource serves one stream per Open and fails once the script is exhausted.
type scriptedSource struct {
	mu      sync.Mutex
	streams []string
	opens   int
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) Open(context.Context) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens++
	if len(s.streams) == 0 {
		return nil, errors.New("device unplugged")
	}
	next := s.streams[0]
	s.streams = s.streams[1:]
	return io.NopCloser(strings.NewReader(next)), nil
}
