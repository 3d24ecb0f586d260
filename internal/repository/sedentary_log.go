package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wisefido-sedentary/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SedentaryLogRepository stores classified events in sedentary_log.
type SedentaryLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewSedentaryLogRepository creates the repository.
func NewSedentaryLogRepository(db *sql.DB, logger *zap.Logger) *SedentaryLogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SedentaryLogRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Insert writes one event and returns the stored row.
func (r *SedentaryLogRepository) Insert(ctx context.Context, ev models.ProcessedEvent) (*models.SedentaryLog, error) {
	row := &models.SedentaryLog{
		ID:              uuid.New(),
		State:           string(ev.State),
		TimerSeconds:    int(ev.Timer),
		AccelerationVal: ev.Value,
		CreatedAt:       r.now().UTC(),
	}

	query := `
		INSERT INTO sedentary_log (id, state, timer_seconds, acceleration_val, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.State, row.TimerSeconds, row.AccelerationVal, row.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert sedentary log: %w", err)
	}
	r.logger.Debug("Sedentary log stored",
		zap.String("id", row.ID.String()),
		zap.String("state", row.State),
		zap.Int("timer_seconds", row.TimerSeconds),
	)
	return row, nil
}

const selectSedentaryLog = `
	SELECT id, state, timer_seconds, acceleration_val, created_at
	FROM sedentary_log
`

// Latest returns the most recent row, or ErrNotFound when the table is empty.
func (r *SedentaryLogRepository) Latest(ctx context.Context) (*models.SedentaryLog, error) {
	query := selectSedentaryLog + ` ORDER BY created_at DESC LIMIT 1`

	var row models.SedentaryLog
	err := r.db.QueryRowContext(ctx, query).Scan(
		&row.ID, &row.State, &row.TimerSeconds, &row.AccelerationVal, &row.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug("No sedentary log rows yet")
		return nil, fmt.Errorf("latest sedentary log: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sedentary log: %w", err)
	}
	return &row, nil
}

// ListSince returns rows created at or after since, oldest first.
func (r *SedentaryLogRepository) ListSince(ctx context.Context, since time.Time) ([]*models.SedentaryLog, error) {
	query := selectSedentaryLog + ` WHERE created_at >= $1 ORDER BY created_at ASC`
	rows, err := r.list(ctx, query, since.UTC())
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Loaded sedentary log window",
		zap.Time("since", since.UTC()),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// ListRecent returns up to limit rows, newest first.
func (r *SedentaryLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.SedentaryLog, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	query := selectSedentaryLog + ` ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *SedentaryLogRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.SedentaryLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sedentary log: %w", err)
	}
	defer rows.Close()

	var result []*models.SedentaryLog
	for rows.Next() {
		var row models.SedentaryLog
		if err := rows.Scan(&row.ID, &row.State, &row.TimerSeconds, &row.AccelerationVal, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sedentary log: %w", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sedentary log: %w", err)
	}
	return result, nil
}
