package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/automind-ai/automind/store"
	_ "github.com/mattn/go-sqlite3"
)

// RunStore implements store.RunStore using SQLite
type RunStore struct {
	db        *sql.DB
	tableName string
}

var _ store.RunStore = (*RunStore)(nil)

// Options configuration for SQLite connection
type Options struct {
	Path      string
	TableName string // Default "runs"
}

// NewRunStore opens the database at opts.Path and creates the schema
func NewRunStore(opts Options) (*RunStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "runs"
	}

	s := &RunStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the runs table if it doesn't exist. started_at holds
// Unix nanoseconds so ordering does not depend on time formatting.
func (s *RunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			record TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_started_at ON %s (started_at);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *RunStore) Close() error {
	return s.db.Close()
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

	query := fmt.Sprintf(`
		INSERT INTO %s (id, state, started_at, record)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			started_at = excluded.started_at,
			record = excluded.record
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query, run.ID, run.State, run.StartedAt.UnixNano(), string(record))
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load retrieves a run record by ID
func (s *RunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT record FROM %s WHERE id = ?", s.tableName)

	var record string
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var run store.RunRecord
	if err := json.Unmarshal([]byte(record), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// List returns run records, newest first
func (s *RunStore) List(ctx context.Context, limit int) ([]*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT record FROM %s ORDER BY started_at DESC", s.tableName)
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*store.RunRecord{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		var run store.RunRecord
		if err := json.Unmarshal([]byte(record), &run); err != nil {
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
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}
