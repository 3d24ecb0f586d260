package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wisefido-sedentary/internal/models"

	"go.uber.org/zap"
)

// ActivitySummaryRepository stores daily aggregates in activity_summary.
type ActivitySummaryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewActivitySummaryRepository(db *sql.DB, logger *zap.Logger) *ActivitySummaryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivitySummaryRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the summary or replaces the row for the same date.
func (r *ActivitySummaryRepository) Upsert(ctx context.Context, s models.ActivitySummary) error {
	query := `
		INSERT INTO activity_summary (date, sedentary_minutes, active_minutes, dominant_state, activity_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE SET
			sedentary_minutes = EXCLUDED.sedentary_minutes,
			active_minutes = EXCLUDED.active_minutes,
			dominant_state = EXCLUDED.dominant_state,
			activity_score = EXCLUDED.activity_score
	`
	_, err := r.db.ExecContext(ctx, query,
		s.Date.Format("2006-01-02"),
		s.SedentaryMinutes,
		s.ActiveMinutes,
		string(s.DominantState),
		s.ActivityScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert activity summary for %s: %w", s.Date.Format("2006-01-02"), err)
	}
	r.logger.Debug("Activity summary upserted",
		zap.String("date", s.Date.Format("2006-01-02")),
		zap.Int("activity_score", s.ActivityScore),
	)
	return nil
}

// List returns the summaries dated within the last days calendar days
// (today included), newest first. Days without a summary are absent.
func (r *ActivitySummaryRepository) List(ctx context.Context, days int) ([]models.ActivitySummary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive")
	}

	query := `
		SELECT date, sedentary_minutes, active_minutes, dominant_state, activity_score
		FROM activity_summary
		WHERE date > CURRENT_DATE - $1::int
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity summary: %w", err)
	}
	defer rows.Close()

	var result []models.ActivitySummary
	for rows.Next() {
		var (
			s     models.ActivitySummary
			date  time.Time
			state string
		)
		if err := rows.Scan(&date, &s.SedentaryMinutes, &s.ActiveMinutes, &state, &s.ActivityScore); err != nil {
			return nil, fmt.Errorf("failed to scan activity summary: %w", err)
		}
		s.Date = date
		s.DominantState = models.ActivityState(state)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity summary: %w", err)
	}
	return result, nil
}
