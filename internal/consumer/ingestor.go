package consumer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"wisefido-sedentary/internal/analytics"
	"wisefido-sedentary/internal/hub"
	"wisefido-sedentary/internal/metrics"
	"wisefido-sedentary/internal/models"
	"wisefido-sedentary/internal/source"
	"wisefido-sedentary/internal/tracker"

	"go.uber.org/zap"
)

const maxLineSize = 64 * 1024

var errLineTooLong = errors.New("line exceeds maximum frame size")

// IngestorConfig tunes the ingestion loop.
type IngestorConfig struct {
	Reconnect    source.ReconnectConfig
	CacheTimeout time.Duration
}

// Ingestor owns the tracker and turns source lines into published events.
// Only Run's goroutine touches the tracker.
type Ingestor struct {
	src     source.Source
	tracker *tracker.Tracker
	monitor *analytics.Monitor
	hub     *hub.Hub
	cache   EventCache
	config  IngestorConfig
	logger  *zap.Logger

	frames  atomic.Uint64
	skipped atomic.Uint64
}

// NewIngestor wires the ingestion loop. monitor and cache may be nil.
func NewIngestor(
	src source.Source,
	trk *tracker.Tracker,
	monitor *analytics.Monitor,
	h *hub.Hub,
	cache EventCache,
	cfg IngestorConfig,
	logger *zap.Logger,
) *Ingestor {
	if cfg.CacheTimeout <= 0 {
		cfg.CacheTimeout = time.Second
	}
	return &Ingestor{
		src:     src,
		tracker: trk,
		monitor: monitor,
		hub:     h,
		cache:   cache,
		config:  cfg,
		logger:  logger,
	}
}

// Run reads the source until ctx is cancelled, a finite source is exhausted,
// or the source cannot be reopened. Tracker state carries over across reopens.
func (i *Ingestor) Run(ctx context.Context) error {
	i.logger.Info("Ingestion started", zap.String("source", i.src.Name()))

	for {
		rc, err := source.OpenWithRetry(ctx, i.src, i.config.Reconnect, i.logger)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("ingestion stopped: %w", err)
		}

		err = i.consume(ctx, rc)
		if ctx.Err() != nil {
			i.logger.Info("Ingestion stopped",
				zap.Uint64("frames", i.frames.Load()),
				zap.Uint64("skipped", i.skipped.Load()),
			)
			return nil
		}
		if source.IsFinite(i.src) {
			if err != nil {
				return fmt.Errorf("reading %s: %w", i.src.Name(), err)
			}
			i.logger.Info("Frame source exhausted",
				zap.String("source", i.src.Name()),
				zap.Uint64("frames", i.frames.Load()),
				zap.Uint64("skipped", i.skipped.Load()),
			)
			return nil
		}

		metrics.SourceReconnects.Inc()
		i.logger.Warn("Frame stream ended, reopening",
			zap.String("source", i.src.Name()),
			zap.Error(err),
		)

		timer := time.NewTimer(i.config.Reconnect.RetryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil
		}
	}
}

// Frames returns the number of frames processed.
func (i *Ingestor) Frames() uint64 {
	return i.frames.Load()
}

// Skipped returns the number of lines that were not valid frames.
func (i *Ingestor) Skipped() uint64 {
	return i.skipped.Load()
}

func (i *Ingestor) consume(ctx context.Context, rc io.ReadCloser) error {
	var once sync.Once
	closeStream := func() { once.Do(func() { _ = rc.Close() }) }
	defer closeStream()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeStream()
		case <-done:
		}
	}()

	reader := bufio.NewReaderSize(rc, 4096)
	for {
		line, err := readLine(reader, maxLineSize)
		if errors.Is(err, errLineTooLong) {
			i.skipped.Add(1)
			metrics.FramesRead.WithLabelValues(metrics.FrameMalformed).Inc()
			i.logger.Warn("Skipping oversized line", zap.Int("limit", maxLineSize))
			continue
		}
		if err == nil || len(line) > 0 {
			i.handleLine(ctx, string(line))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed up to its newline and reported as errLineTooLong.
// A non-empty result may come with io.EOF when the stream ends without a newline.
func readLine(r *bufio.Reader, limit int) ([]byte, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if tooLong && (err == nil || err == io.EOF) {
			return nil, errLineTooLong
		}
		if err == nil {
			line = bytes.TrimSuffix(line, []byte("\n"))
			line = bytes.TrimSuffix(line, []byte("\r"))
		}
		return line, err
	}
}

func (i *Ingestor) handleLine(ctx context.Context, line string) {
	frame, err := models.ParseFrame(line)
	if err != nil {
		i.skipped.Add(1)
		if errors.Is(err, models.ErrNotAFrame) {
			metrics.FramesRead.WithLabelValues(metrics.FrameNotFrame).Inc()
			i.logger.Debug("Skipping non-frame line", zap.String("line", line))
			return
		}
		metrics.FramesRead.WithLabelValues(metrics.FrameMalformed).Inc()
		i.logger.Warn("Skipping malformed frame", zap.String("line", line), zap.Error(err))
		return
	}
	metrics.FramesRead.WithLabelValues(metrics.FrameOK).Inc()
	i.frames.Add(1)

	ev := i.tracker.Process(frame)
	if i.monitor != nil {
		i.monitor.Add(frame.Magnitude)
	}

	i.hub.Publish(ev)
	metrics.EventsPublished.Inc()
	metrics.ObserveEvent(ev.Timer, ev.Alert)

	if i.cache == nil {
		return
	}
	pushCtx, cancel := context.WithTimeout(ctx, i.config.CacheTimeout)
	err = i.cache.Push(pushCtx, ev)
	cancel()
	if err != nil {
		metrics.CachePushErrors.Inc()
		i.logger.Warn("Failed to push event to reconnect cache", zap.Error(err))
	}
}
