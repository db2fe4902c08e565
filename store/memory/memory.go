package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/automind-ai/automind/store"
)

// RunStore keeps run records in process memory.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]store.RunRecord
}

var _ store.RunStore = (*RunStore)(nil)

// NewRunStore creates an empty in-memory store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]store.RunRecord),
	}
}

// Save stores a copy of run.
func (s *RunStore) Save(_ context.Context, run *store.RunRecord) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run record must have an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = clone(run)
	return nil
}

// Load returns a copy of the record with the given ID.
func (s *RunStore) Load(_ context.Context, id string) (*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
	}
	out := clone(&run)
	return &out, nil
}

// List returns records ordered by start time, newest first.
func (s *RunStore) List(_ context.Context, limit int) ([]*store.RunRecord, error) {
	s.mu.RLock()
	runs := make([]*store.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		c := clone(&run)
		runs = append(runs, &c)
	}
	s.mu.RUnlock()

	slices.SortFunc(runs, func(a, b *store.RunRecord) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Delete removes the record with the given ID.
func (s *RunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}

func clone(run *store.RunRecord) store.RunRecord {
	c := *run
	c.Order = slices.Clone(run.Order)
	c.Executed = slices.Clone(run.Executed)
	c.Skipped = slices.Clone(run.Skipped)
	if run.Dependencies != nil {
		c.Dependencies = make(map[string][]string, len(run.Dependencies))
		for name, deps := range run.Dependencies {
			c.Dependencies[name] = slices.Clone(deps)
		}
	}
	if run.Metadata != nil {
		c.Metadata = make(map[string]any, len(run.Metadata))
		for k, v := range run.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}
