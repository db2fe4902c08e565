package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/automind-ai/automind/store"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRunStore_InitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewRunStoreWithPool(mock, "")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS runs")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewRunStoreWithPool(mock, "runs")

	run := &store.RunRecord{
		ID:        "run-1",
		State:     "completed",
		Order:     []string{"A", "B"},
		Executed:  []string{"A", "B"},
		StartedAt: time.Date(2026, 2, 2, 2, 2, 2, 0, time.UTC),
	}
	record, _ := json.Marshal(run)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO runs")).
		WithArgs(run.ID, run.State, run.StartedAt, record).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, s.Save(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunStore_SaveError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewRunStoreWithPool(mock, "runs")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO runs")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err = s.Save(context.Background(), &store.RunRecord{ID: "run-1"})
	assert.ErrorContains(t, err, "failed to save run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunStore_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewRunStoreWithPool(mock, "runs")

	want := store.RunRecord{
		ID:         "run-1",
		State:      "failed",
		FailedTask: "B",
		Error:      "boom",
		StartedAt:  time.Date(2026, 2, 2, 2, 2, 2, 0, time.UTC),
	}
	record, _ := json.Marshal(want)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT record FROM runs WHERE id = $1")).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(record))

	loaded, err := s.Load(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "failed", loaded.State)
	assert.Equal(t, "B", loaded.FailedTask)
	assert.True(t, want.StartedAt.Equal(loaded.StartedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunStore_LoadNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewRunStoreWithPool(mock, "runs")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT record FROM runs WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunStore_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewRunStoreWithPool(mock, "runs")

	newer, _ := json.Marshal(store.RunRecord{ID: "new"})
	older, _ := json.Marshal(store.RunRecord{ID: "old"})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT record FROM runs ORDER BY started_at DESC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(newer).AddRow(older))

	runs, err := s.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewRunStoreWithPool(mock, "runs")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM runs WHERE id = $1")).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, s.Delete(context.Background(), "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
