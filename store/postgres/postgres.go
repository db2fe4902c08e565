package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/automind-ai/automind/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// RunStore implements store.RunStore using PostgreSQL
type RunStore struct {
	pool      DBPool
	tableName string
}

var _ store.RunStore = (*RunStore)(nil)

// Options configuration for Postgres connection
type Options struct {
	ConnString string
	TableName  string // Default "runs"
}

// NewRunStore creates a new Postgres run store
func NewRunStore(ctx context.Context, opts Options) (*RunStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewRunStoreWithPool(pool, opts.TableName), nil
}

// NewRunStoreWithPool creates a new Postgres run store with an existing pool
// Useful for testing with mocks
func NewRunStoreWithPool(pool DBPool, tableName string) *RunStore {
	if tableName == "" {
		tableName = "runs"
	}
	return &RunStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *RunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			record JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_started_at ON %s (started_at);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *RunStore) Close() {
	s.pool.Close()
}

// Save stores a run record
func (s *RunStore) Save(ctx context.Context, run *store.RunRecord) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run record must have an ID")
	}

	record, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO %s (id, state, started_at, record) VALUES ($1, $2, $3, $4) "+
		"ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, started_at = EXCLUDED.started_at, record = EXCLUDED.record",
		s.tableName)

	if _, err := s.pool.Exec(ctx, query, run.ID, run.State, run.StartedAt, record); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load retrieves a run record by ID
func (s *RunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT record FROM %s WHERE id = $1", s.tableName)

	var record []byte
	if err := s.pool.QueryRow(ctx, query, id).Scan(&record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var run store.RunRecord
	if err := json.Unmarshal(record, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// List returns run records, newest first
func (s *RunStore) List(ctx context.Context, limit int) ([]*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT record FROM %s ORDER BY started_at DESC", s.tableName)
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*store.RunRecord{}
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		var run store.RunRecord
		if err := json.Unmarshal(record, &run); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	return runs, nil
}

// Delete removes a run record
func (s *RunStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}
