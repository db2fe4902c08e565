package task

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Params is the structured input a task is invoked with.
type Params map[string]any

// GetString returns the parameter as a string, or "" when absent or not a string.
func (p Params) GetString(key string) string {
	s, _ := p[key].(string)
	return s
}

// GetInt returns the parameter as an int. Float values, as produced by YAML
// and JSON decoding, are truncated.
func (p Params) GetInt(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Input is the single value passed to a task.
type Input struct {
	// Params are the task's own parameters.
	Params Params

	// Deps holds the results of the task's direct dependencies, keyed by
	// dependency name. Purely side-effecting tasks may ignore it.
	Deps map[string]any
}

// Dep returns the result produced by the named dependency.
func (in Input) Dep(name string) (any, bool) {
	v, ok := in.Deps[name]
	return v, ok
}

// Func is a task implementation.
type Func func(ctx context.Context, in Input) (any, error)

// RegisterOption configures a registration.
type RegisterOption func(*entry)

// WithRequiredParams declares parameters that must be present in
// Input.Params for every invocation.
func WithRequiredParams(names ...string) RegisterOption {
	return func(e *entry) {
		e.required = append(e.required, names...)
	}
}

// WithDescription attaches a human readable description.
func WithDescription(description string) RegisterOption {
	return func(e *entry) {
		e.description = description
	}
}

type entry struct {
	fn          Func
	required    []string
	description string
}

// Registry maps task names to implementations. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]entry),
	}
}

// Register stores fn under name, replacing any previous registration.
func (r *Registry) Register(name string, fn Func, opts ...RegisterOption) {
	e := entry{fn: fn}
	for _, opt := range opts {
		opt(&e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[name] = e
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tasks[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.tasks))
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// Description returns the description given at registration.
func (r *Registry) Description(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tasks[name].description
}

// Execute invokes the task registered under name and returns its result
// unchanged. Failures raised by the task, including panics, are wrapped in
// a TaskExecutionError.
func (r *Registry) Execute(ctx context.Context, name string, in Input) (result any, err error) {
	r.mu.RLock()
	e, ok := r.tasks[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownTaskError{Name: name}
	}

	var missing []string
	for _, p := range e.required {
		if _, ok := in.Params[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return nil, &ParamError{Name: name, Missing: missing}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &TaskExecutionError{Name: name, Cause: fmt.Errorf("panic: %v", rec)}
		}
	}()

	result, err = e.fn(ctx, in)
	if err != nil {
		return nil, &TaskExecutionError{Name: name, Cause: err}
	}
	return result, nil
}
