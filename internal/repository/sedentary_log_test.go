package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"wisefido-sedentary/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var logColumns = []string{"id", "state", "timer_seconds", "acceleration_val", "created_at"}

func setupMockSedentaryLogDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *SedentaryLogRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewSedentaryLogRepository(db, zap.NewNop())
	return db, mock, repo
}

func TestInsert_Success(t *testing.T) {
	db, mock, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	mock.ExpectExec(`INSERT INTO sedentary_log`).
		WithArgs(sqlmock.AnyArg(), "SEDENTARY", 1200, 0.012, fixed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	row, err := repo.Insert(context.Background(), models.ProcessedEvent{
		State: models.StateSedentary,
		Timer: 1200,
		Value: 0.012,
		Alert: true,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, "SEDENTARY", row.State)
	assert.Equal(t, 1200, row.TimerSeconds)
	assert.Equal(t, fixed, row.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_Error(t *testing.T) {
	db, mock, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO sedentary_log`).
		WillReturnError(errors.New("connection refused"))

	row, err := repo.Insert(context.Background(), models.ProcessedEvent{State: models.StateActive})

	assert.Error(t, err)
	assert.Nil(t, row)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLatest_Success(t *testing.T) {
	db, mock, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	id := uuid.New()
	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM sedentary_log ORDER BY created_at DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(logColumns).AddRow(id.String(), "FIDGET", 42, 0.025, createdAt))

	row, err := repo.Latest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, id, row.ID)
	assert.Equal(t, "FIDGET", row.State)
	assert.Equal(t, 42, row.TimerSeconds)
	assert.Equal(t, createdAt, row.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatest_NotFound(t *testing.T) {
	db, mock, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrNoRows)

	row, err := repo.Latest(context.Background())

	assert.Nil(t, row)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatest_DatabaseError(t *testing.T) {
	db, mock, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("timeout"))

	_, err := repo.Latest(context.Background())

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestListSince_Success(t *testing.T) {
	db, mock, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) WHERE created_at >= \$1 ORDER BY created_at ASC`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(logColumns).
			AddRow(uuid.New().String(), "SEDENTARY", 1, 0.01, since.Add(time.Second)).
			AddRow(uuid.New().String(), "ACTIVE", 0, 0.09, since.Add(2*time.Second)))

	rows, err := repo.ListSince(context.Background(), since)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SEDENTARY", rows[0].State)
	assert.Equal(t, "ACTIVE", rows[1].State)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent_Success(t *testing.T) {
	db, mock, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(logColumns).
			AddRow(uuid.New().String(), "ACTIVE", 0, 0.09, time.Now()))

	rows, err := repo.ListRecent(context.Background(), 50)

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent_InvalidLimit(t *testing.T) {
	db, _, repo := setupMockSedentaryLogDB(t)
	defer db.Close()

	_, err := repo.ListRecent(context.Background(), 0)
	assert.Error(t, err)
}

func TestInsert_LogsStoredRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	repo := NewSedentaryLogRepository(db, zap.New(core))

	mock.ExpectExec(`INSERT INTO sedentary_log`).WillReturnResult(sqlmock.NewResult(0, 1))

	row, err := repo.Insert(context.Background(), models.ProcessedEvent{State: models.StateFidget, Timer: 7})
	require.NoError(t, err)

	entries := logs.FilterMessage("Sedentary log stored").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, row.ID.String(), fields["id"])
	assert.Equal(t, "FIDGET", fields["state"])
	assert.Equal(t, int64(7), fields["timer_seconds"])
}

func TestNewSedentaryLogRepository_NilLogger(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSedentaryLogRepository(db, nil)
	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrNoRows)

	_, err = repo.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
