// Package planner executes a set of interdependent tasks.
//
// Tasks are declared with AddTask, naming the tasks they depend on. The
// planner builds a graph.DependencyGraph from those declarations and, on
// ExecutePlan, runs every task through a task.Registry in topological order:
//
//	reg := task.NewRegistry()
//	reg.Register("fetch", fetch)
//	reg.Register("parse", parse)
//
//	p := planner.New(reg)
//	p.AddTask("fetch", nil, map[string]any{"url": "https://example.com"})
//	p.AddTask("parse", []string{"fetch"}, nil)
//
//	run, err := p.ExecutePlan(ctx)
//
// Each task receives its node attributes as task.Params and the results of
// its direct dependencies in task.Input.Deps.
//
// # Failure
//
// A cycle or a task missing from the registry fails the run before anything
// executes. Otherwise the first task error stops the run with a
// *PlanExecutionError naming the task. Tasks that already completed are not
// rolled back, and nothing is retried. Every call re-executes every task.
//
// # Parallel execution
//
// WithWorkers(n) with n > 1 runs independent branches concurrently. A task
// starts only after all its dependencies completed successfully. After the
// first failure no new task starts; running tasks finish and the remaining
// ones are reported in Run.Skipped.
//
// # Observing runs
//
// Listeners receive plan_start, task_start, task_complete, task_error,
// task_skipped and plan_end events. WithRunStore persists a store.RunRecord
// for every run so it can be inspected later.
package planner
