package planner

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

type outcome struct {
	name string
	err  error
}

// executeParallel runs tasks as soon as all of their dependencies have
// completed, at most workers at a time. Ready tasks are started in
// topological order. After the first failure or cancellation no further task
// is started; tasks already running are allowed to finish and their context
// is left untouched.
func (x *execution) executeParallel(ctx context.Context, order []string) error {
	p := x.planner

	position := make(map[string]int, len(order))
	indegree := make(map[string]int, len(order))
	var ready []string
	for i, name := range order {
		position[name] = i
		preds, err := p.graph.Predecessors(name)
		if err != nil {
			return &PlanExecutionError{Task: name, Cause: err}
		}
		indegree[name] = len(preds)
		if len(preds) == 0 {
			ready = append(ready, name)
		}
	}

	var eg errgroup.Group
	eg.SetLimit(p.workers)

	done := make(chan outcome, len(order))
	running := 0
	var firstErr *PlanExecutionError

	for {
		for firstErr == nil && ctx.Err() == nil && len(ready) > 0 && running < p.workers {
			name := ready[0]
			ready = ready[1:]
			running++
			eg.Go(func() error {
				done <- outcome{name: name, err: x.runTask(ctx, name)}
				return nil
			})
		}

		if running == 0 {
			break
		}

		out := <-done
		running--

		if out.err != nil {
			if firstErr == nil {
				firstErr = &PlanExecutionError{Task: out.name, Cause: out.err}
			}
			continue
		}

		succs, err := p.graph.Neighbors(out.name)
		if err != nil {
			if firstErr == nil {
				firstErr = &PlanExecutionError{Task: out.name, Cause: err}
			}
			continue
		}
		for _, s := range succs {
			indegree[s]--
			if indegree[s] == 0 {
				ready = append(ready, s)
			}
		}
		slices.SortFunc(ready, func(a, b string) int {
			return position[a] - position[b]
		})
	}

	_ = eg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		for _, name := range order {
			if _, ok := x.result(name); !ok {
				return &PlanExecutionError{Task: name, Cause: err}
			}
		}
	}
	return nil
}

func (x *execution) result(name string) (any, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	v, ok := x.run.Results[name]
	return v, ok
}
