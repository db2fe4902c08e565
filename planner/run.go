package planner

import (
	"maps"
	"slices"
	"time"

	"github.com/automind-ai/automind/store"
)

// State is the lifecycle state of a plan run.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Run is the report of one ExecutePlan call.
type Run struct {
	ID    string
	State State

	// Order is the topological order the plan was computed with.
	Order []string

	// Dependencies maps each task to its direct dependencies. Tasks without
	// dependencies are absent.
	Dependencies map[string][]string

	// Executed lists successfully completed tasks in completion order.
	Executed []string

	// Skipped lists tasks that never started because the run stopped,
	// including a task named by a cancellation or pre-flight error.
	Skipped []string

	Results map[string]any
	// FailedTask is the task that started and returned the run's error.
	FailedTask string
	Err        error
	Metadata   map[string]any
	StartedAt  time.Time
	FinishedAt time.Time
}

// Result returns the value produced by the named task.
func (r *Run) Result(name string) (any, bool) {
	v, ok := r.Results[name]
	return v, ok
}

// Duration returns the wall time of the run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Record converts the run into its persisted form. Results are dropped.
func (r *Run) Record() *store.RunRecord {
	rec := &store.RunRecord{
		ID:         r.ID,
		State:      string(r.State),
		Order:      slices.Clone(r.Order),
		Executed:   slices.Clone(r.Executed),
		Skipped:    slices.Clone(r.Skipped),
		FailedTask: r.FailedTask,
		Metadata:   maps.Clone(r.Metadata),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	if len(r.Dependencies) > 0 {
		rec.Dependencies = make(map[string][]string, len(r.Dependencies))
		for name, deps := range r.Dependencies {
			rec.Dependencies[name] = slices.Clone(deps)
		}
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}
