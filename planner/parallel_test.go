package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/automind-ai/automind/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeline records start and end markers from concurrently running tasks.
type timeline struct {
	mu     sync.Mutex
	events []string
}

func (tl *timeline) add(s string) {
	tl.mu.Lock()
	tl.events = append(tl.events, s)
	tl.mu.Unlock()
}

func (tl *timeline) index(s string) int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return slices.Index(tl.events, s)
}

func (tl *timeline) fn(name string) task.Func {
	return func(ctx context.Context, in task.Input) (any, error) {
		tl.add("start:" + name)
		time.Sleep(5 * time.Millisecond)
		tl.add("end:" + name)
		return name, nil
	}
}

func TestExecutePlanParallel_RespectsDependencies(t *testing.T) {
	tl := &timeline{}
	reg := task.NewRegistry()
	deps := map[string][]string{
		"list":     nil,
		"search":   nil,
		"load":     {"list"},
		"chunk":    {"load"},
		"index":    {"chunk"},
		"retrieve": {"index"},
		"answer":   {"retrieve", "search"},
	}

	p := New(reg, quiet(), WithWorkers(4))
	for _, name := range []string{"list", "search", "load", "chunk", "index", "retrieve", "answer"} {
		reg.Register(name, tl.fn(name))
		require.NoError(t, p.AddTask(name, deps[name], nil))
	}

	run, err := p.ExecutePlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, run.State)
	assert.Len(t, run.Executed, 7)

	for name, ds := range deps {
		start := tl.index("start:" + name)
		require.GreaterOrEqual(t, start, 0, name)
		for _, d := range ds {
			assert.Less(t, tl.index("end:"+d), start, "%s started before %s finished", name, d)
		}
	}

	v, ok := run.Result("answer")
	assert.True(t, ok)
	assert.Equal(t, "answer", v)
}

func TestExecutePlanParallel_RunsIndependentTasksConcurrently(t *testing.T) {
	aStarted := make(chan struct{})
	bStarted := make(chan struct{})

	wait := func(own, other chan struct{}) task.Func {
		return func(ctx context.Context, in task.Input) (any, error) {
			close(own)
			select {
			case <-other:
				return nil, nil
			case <-time.After(2 * time.Second):
				return nil, errors.New("sibling never started")
			}
		}
	}

	reg := task.NewRegistry()
	reg.Register("a", wait(aStarted, bStarted))
	reg.Register("b", wait(bStarted, aStarted))

	p := New(reg, quiet(), WithWorkers(2))
	require.NoError(t, p.AddTask("a", nil, nil))
	require.NoError(t, p.AddTask("b", nil, nil))

	_, err := p.ExecutePlan(context.Background())
	assert.NoError(t, err)
}

func TestExecutePlanParallel_WorkerLimit(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0

	reg := task.NewRegistry()
	p := New(reg, quiet(), WithWorkers(2))
	for i := range 6 {
		name := fmt.Sprintf("t%d", i)
		reg.Register(name, func(ctx context.Context, in task.Input) (any, error) {
			mu.Lock()
			active++
			peak = max(peak, active)
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return nil, nil
		})
		require.NoError(t, p.AddTask(name, nil, nil))
	}

	run, err := p.ExecutePlan(context.Background())
	require.NoError(t, err)
	assert.Len(t, run.Executed, 6)
	assert.LessOrEqual(t, peak, 2)
}

func TestExecutePlanParallel_FailFast(t *testing.T) {
	failed := make(chan struct{})
	var once sync.Once
	onError := ListenerFunc(func(ctx context.Context, e Event) {
		if e.Type == EventTaskError {
			once.Do(func() { close(failed) })
		}
	})

	var mu sync.Mutex
	var invoked []string
	track := func(name string) {
		mu.Lock()
		invoked = append(invoked, name)
		mu.Unlock()
	}

	reg := task.NewRegistry()
	reg.Register("broken", func(ctx context.Context, in task.Input) (any, error) {
		track("broken")
		return nil, errors.New("broken branch")
	})
	reg.Register("slow", func(ctx context.Context, in task.Input) (any, error) {
		track("slow")
		<-failed
		time.Sleep(50 * time.Millisecond)
		return "slow-done", nil
	})
	reg.Register("after_slow", func(ctx context.Context, in task.Input) (any, error) {
		track("after_slow")
		return nil, nil
	})
	reg.Register("after_broken", func(ctx context.Context, in task.Input) (any, error) {
		track("after_broken")
		return nil, nil
	})

	p := New(reg, quiet(), WithWorkers(2), WithListener(onError))
	require.NoError(t, p.AddTask("broken", nil, nil))
	require.NoError(t, p.AddTask("slow", nil, nil))
	require.NoError(t, p.AddTask("after_slow", []string{"slow"}, nil))
	require.NoError(t, p.AddTask("after_broken", []string{"broken"}, nil))

	run, err := p.ExecutePlan(context.Background())

	var planErr *PlanExecutionError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, "broken", planErr.Task)

	// The in-flight sibling finished; nothing new started after the failure.
	assert.Equal(t, []string{"slow"}, run.Executed)
	assert.ElementsMatch(t, []string{"after_slow", "after_broken"}, run.Skipped)
	assert.ElementsMatch(t, []string{"broken", "slow"}, invoked)
	assert.Equal(t, StateFailed, run.State)
}

func TestExecutePlanParallel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := task.NewRegistry()
	reg.Register("first", func(ctx context.Context, in task.Input) (any, error) {
		cancel()
		return nil, nil
	})
	reg.Register("second", func(ctx context.Context, in task.Input) (any, error) {
		return nil, nil
	})

	p := New(reg, quiet(), WithWorkers(3))
	require.NoError(t, p.AddTask("second", []string{"first"}, nil))

	run, err := p.ExecutePlan(ctx)

	var planErr *PlanExecutionError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, "second", planErr.Task)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, run.Executed)
	assert.Empty(t, run.FailedTask)
	assert.Equal(t, []string{"second"}, run.Skipped)
}
