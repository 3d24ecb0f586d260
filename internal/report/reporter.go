package report

import (
	"context"
	"fmt"
	"time"

	"wisefido-sedentary/internal/models"
	"wisefido-sedentary/internal/tracker"

	"go.uber.org/zap"
)

// LogReader reads stored events.
type LogReader interface {
	ListSince(ctx context.Context, since time.Time) ([]*models.SedentaryLog, error)
}

// SummaryWriter stores daily summaries.
type SummaryWriter interface {
	Upsert(ctx context.Context, s models.ActivitySummary) error
}

// DailyReporter periodically summarises the last 24 hours of events.
type DailyReporter struct {
	logs             LogReader
	summaries        SummaryWriter
	thresholds       tracker.Thresholds
	samplesPerMinute int
	interval         time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

func NewDailyReporter(
	logs LogReader,
	summaries SummaryWriter,
	th tracker.Thresholds,
	samplesPerMinute int,
	interval time.Duration,
	logger *zap.Logger,
) *DailyReporter {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DailyReporter{
		logs:             logs,
		summaries:        summaries,
		thresholds:       th,
		samplesPerMinute: samplesPerMinute,
		interval:         interval,
		logger:           logger,
		now:              time.Now,
	}
}

// Run produces a summary on every interval tick until ctx is cancelled.
func (r *DailyReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Daily reporter started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx, r.now()); err != nil {
				r.logger.Error("Daily summary failed", zap.Error(err))
			}
		}
	}
}

// RunOnce summarises the 24 hours before now. It returns nil without writing when
// there is no data.
func (r *DailyReporter) RunOnce(ctx context.Context, now time.Time) (*models.ActivitySummary, error) {
	rows, err := r.logs.ListSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to load sedentary log: %w", err)
	}
	if len(rows) == 0 {
		r.logger.Info("No data for daily summary")
		return nil, nil
	}

	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.AccelerationVal
	}

	if suggested, centers, ok := SuggestFidgetThreshold(values); ok {
		r.logger.Info("Activity clusters",
			zap.Float64s("centers", centers),
			zap.Float64("suggested_fidget_threshold", suggested),
			zap.Float64("fidget_threshold", r.thresholds.Fidget),
		)
	}

	summary := Summarize(now.UTC(), values, r.thresholds, r.samplesPerMinute)
	if err := r.summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	r.logger.Info("Daily summary saved",
		zap.Int("samples", len(values)),
		zap.Float64("sedentary_minutes", summary.SedentaryMinutes),
		zap.Float64("active_minutes", summary.ActiveMinutes),
		zap.Int("activity_score", summary.ActivityScore),
	)
	return &summary, nil
}
