// Package store persists plan run records.
//
// Every plan execution produces a RunRecord: its ID, final state, the
// computed order, the tasks that ran, the task that failed and why. A
// RunStore keeps those records so past runs can be listed and inspected with
// `automind runs`. Records are an audit trail only; plans are never resumed
// from them.
//
// Implementations:
//   - store/memory: process-local map, the default
//   - store/redis: one JSON value per run plus a sorted set ordered by start time
//   - store/sqlite: single table, file based
//   - store/postgres: single table with a JSONB column, backed by a pgx pool
//
// All of them return ErrRunNotFound (wrapped) for unknown IDs:
//
//	rec, err := runs.Load(ctx, id)
//	if errors.Is(err, store.ErrRunNotFound) {
//		...
//	}
package store
