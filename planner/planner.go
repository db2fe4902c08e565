package planner

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/automind-ai/automind/graph"
	"github.com/automind-ai/automind/log"
	"github.com/automind-ai/automind/store"
	"github.com/automind-ai/automind/task"
	"github.com/google/uuid"
)

// Planner declares tasks on a dependency graph and executes them through a
// registry in dependency order.
//
// A Planner is not safe for concurrent ExecutePlan calls.
type Planner struct {
	registry  *task.Registry
	graph     *graph.DependencyGraph
	workers   int
	logger    log.Logger
	listeners []Listener
	runs      store.RunStore
	metadata  map[string]any

	mu    sync.RWMutex
	state State
}

// Option configures a Planner.
type Option func(*Planner)

// WithWorkers sets how many tasks may run at once. Values above 1 enable
// parallel execution of independent branches.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the planner's logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithListener adds a listener for plan events.
func WithListener(l Listener) Option {
	return func(p *Planner) {
		p.listeners = append(p.listeners, l)
	}
}

// WithRunStore persists a record of every run.
func WithRunStore(s store.RunStore) Option {
	return func(p *Planner) {
		p.runs = s
	}
}

// WithGraph uses g instead of a fresh graph, for example one created with
// graph.WithStrictEdges.
func WithGraph(g *graph.DependencyGraph) Option {
	return func(p *Planner) {
		if g != nil {
			p.graph = g
		}
	}
}

// WithMetadata attaches metadata to every run record.
func WithMetadata(md map[string]any) Option {
	return func(p *Planner) {
		p.metadata = maps.Clone(md)
	}
}

// New creates a planner executing tasks from registry.
func New(registry *task.Registry, opts ...Option) *Planner {
	p := &Planner{
		registry: registry,
		graph:    graph.New(),
		workers:  1,
		logger:   log.GetDefaultLogger(),
		state:    StatePending,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddTask adds a node for name and an edge from each dependency to it.
// attrs become the task's parameters.
func (p *Planner) AddTask(name string, dependencies []string, attrs map[string]any) error {
	p.graph.AddNode(name, attrs)
	for _, dep := range dependencies {
		if err := p.graph.AddEdge(dep, name, nil); err != nil {
			return fmt.Errorf("add task %s: %w", name, err)
		}
	}
	return nil
}

// Graph returns the underlying dependency graph.
func (p *Planner) Graph() *graph.DependencyGraph {
	return p.graph
}

// Registry returns the registry tasks are executed through.
func (p *Planner) Registry() *task.Registry {
	return p.registry
}

// State returns the state of the most recent run, or StatePending if the plan
// has not been executed.
func (p *Planner) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Planner) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// ExecutePlan runs every task once in topological order. Each task receives
// its node attributes as parameters and the results of its direct
// dependencies. The first failure stops the run; completed tasks are not
// undone. The returned Run is never nil.
func (p *Planner) ExecutePlan(ctx context.Context) (*Run, error) {
	x := &execution{
		planner: p,
		run: &Run{
			ID:        uuid.NewString(),
			State:     StatePending,
			Results:   make(map[string]any),
			Metadata:  maps.Clone(p.metadata),
			StartedAt: time.Now(),
		},
	}

	x.run.State = StateRunning
	p.setState(StateRunning)
	x.emit(ctx, Event{Type: EventPlanStart})
	p.logger.Info("Starting plan %s", x.run.ID)

	err := x.execute(ctx)
	x.finish(ctx, err)

	if err != nil {
		return x.run, err
	}
	return x.run, nil
}

// execution holds the mutable state of one run.
type execution struct {
	planner *Planner
	run     *Run

	mu       sync.Mutex
	started  map[string]bool
	notifyMu sync.Mutex
}

func (x *execution) execute(ctx context.Context) error {
	p := x.planner

	order, err := p.graph.TopologicalOrder()
	if err != nil {
		return &PlanExecutionError{Cause: err}
	}
	x.run.Order = order
	x.run.Dependencies = make(map[string][]string, len(order))
	for _, name := range order {
		preds, err := p.graph.Predecessors(name)
		if err != nil {
			return &PlanExecutionError{Task: name, Cause: err}
		}
		if len(preds) > 0 {
			x.run.Dependencies[name] = preds
		}
	}

	for _, name := range order {
		if !p.registry.Has(name) {
			return &PlanExecutionError{Task: name, Cause: &task.UnknownTaskError{Name: name}}
		}
	}

	if p.workers > 1 {
		return x.executeParallel(ctx, order)
	}
	return x.executeSequential(ctx, order)
}

func (x *execution) executeSequential(ctx context.Context, order []string) error {
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return &PlanExecutionError{Task: name, Cause: err}
		}
		if err := x.runTask(ctx, name); err != nil {
			return &PlanExecutionError{Task: name, Cause: err}
		}
	}
	return nil
}

// runTask executes one task and records its result.
func (x *execution) runTask(ctx context.Context, name string) error {
	p := x.planner

	attrs, _ := p.graph.NodeAttributes(name)
	preds, err := p.graph.Predecessors(name)
	if err != nil {
		return err
	}

	deps := make(map[string]any, len(preds))
	x.mu.Lock()
	for _, pred := range preds {
		deps[pred] = x.run.Results[pred]
	}
	x.mu.Unlock()

	x.mu.Lock()
	if x.started == nil {
		x.started = make(map[string]bool)
	}
	x.started[name] = true
	x.mu.Unlock()

	p.logger.Info("Executing task: %s", name)
	x.emit(ctx, Event{Type: EventTaskStart, Task: name})

	start := time.Now()
	result, err := p.registry.Execute(ctx, name, task.Input{Params: task.Params(attrs), Deps: deps})
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("Task %s failed: %v", name, err)
		x.emit(ctx, Event{Type: EventTaskError, Task: name, Err: err, Duration: elapsed})
		return err
	}

	x.mu.Lock()
	x.run.Results[name] = result
	x.run.Executed = append(x.run.Executed, name)
	x.mu.Unlock()

	x.emit(ctx, Event{Type: EventTaskComplete, Task: name, Result: result, Duration: elapsed})
	return nil
}

func (x *execution) finish(ctx context.Context, err error) {
	p := x.planner
	run := x.run

	run.FinishedAt = time.Now()
	if err != nil {
		run.State = StateFailed
		run.Err = err
		// A task the run never started is skipped, not failed, even when
		// the error names it.
		if pe, ok := err.(*PlanExecutionError); ok && x.hasStarted(pe.Task) {
			run.FailedTask = pe.Task
		}
		run.Skipped = x.unfinished()
		for _, name := range run.Skipped {
			x.emit(ctx, Event{Type: EventTaskSkipped, Task: name})
		}
		p.logger.Error("Plan %s failed: %v", run.ID, err)
	} else {
		run.State = StateCompleted
		p.logger.Info("Plan %s completed: %d tasks in %v", run.ID, len(run.Executed), run.Duration())
	}
	p.setState(run.State)

	x.emit(ctx, Event{Type: EventPlanEnd, Err: err, Duration: run.Duration()})

	if p.runs != nil {
		// The run outcome does not depend on the audit record.
		if serr := p.runs.Save(context.WithoutCancel(ctx), run.Record()); serr != nil {
			p.logger.Warn("Failed to save run %s: %v", run.ID, serr)
		}
	}
}

func (x *execution) hasStarted(name string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.started[name]
}

// unfinished returns tasks in Order that neither completed nor failed.
func (x *execution) unfinished() []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	var out []string
	for _, name := range x.run.Order {
		if name == x.run.FailedTask || slices.Contains(x.run.Executed, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (x *execution) emit(ctx context.Context, e Event) {
	listeners := x.planner.listeners
	if len(listeners) == 0 {
		return
	}
	e.RunID = x.run.ID
	e.Timestamp = time.Now()

	x.notifyMu.Lock()
	defer x.notifyMu.Unlock()
	for _, l := range listeners {
		notify(ctx, l, e)
	}
}

func notify(ctx context.Context, l Listener, e Event) {
	defer func() {
		// A misbehaving listener must not break the run.
		_ = recover()
	}()
	l.OnEvent(ctx, e)
}
