package store

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID is unknown to the store.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is the persisted summary of one plan execution. Task results are
// not persisted; they are arbitrary Go values.
type RunRecord struct {
	ID         string         `json:"id"`
	State      string         `json:"state"`
	Order      []string       `json:"order"`
	Executed   []string       `json:"executed"`
	Skipped    []string       `json:"skipped,omitempty"`
	FailedTask string         `json:"failed_task,omitempty"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`

	// Dependencies maps each task to its direct dependencies, enough to
	// redraw the plan.
	Dependencies map[string][]string `json:"dependencies,omitempty"`
}

// Duration returns how long the run took.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunStore persists run records.
type RunStore interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, run *RunRecord) error

	// Load retrieves a record by ID. Unknown IDs yield ErrRunNotFound.
	Load(ctx context.Context, id string) (*RunRecord, error)

	// List returns up to limit records, most recently started first.
	// A limit <= 0 returns every record.
	List(ctx context.Context, limit int) ([]*RunRecord, error)

	// Delete removes a record. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}
