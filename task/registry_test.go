package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ExecuteReturnsResultUnchanged(t *testing.T) {
	reg := NewRegistry()
	reg.Register("add", func(ctx context.Context, in Input) (any, error) {
		a, _ := in.Params.GetInt("a")
		b, _ := in.Params.GetInt("b")
		return a + b, nil
	}, WithRequiredParams("a", "b"))
	reg.Register("greet", func(ctx context.Context, in Input) (any, error) {
		return "Hello, " + in.Params.GetString("name") + "!", nil
	})

	out, err := reg.Execute(context.Background(), "add", Input{Params: Params{"a": 5, "b": 3}})
	require.NoError(t, err)
	assert.Equal(t, 8, out)

	out, err = reg.Execute(context.Background(), "greet", Input{Params: Params{"name": "Alice"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Alice!", out)
}

func TestRegistry_UnknownTask(t *testing.T) {
	reg := NewRegistry()
	reg.Register("known", func(ctx context.Context, in Input) (any, error) { return nil, nil })
	before := reg.Names()

	_, err := reg.Execute(context.Background(), "missing", Input{})

	var unknown *UnknownTaskError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.ErrorIs(t, err, ErrUnknownTask)
	assert.Equal(t, before, reg.Names())
	assert.False(t, reg.Has("missing"))
}

func TestRegistry_TaskExecutionErrorWrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	reg := NewRegistry()
	reg.Register("fail_task", func(ctx context.Context, in Input) (any, error) {
		return "partial", cause
	})

	out, err := reg.Execute(context.Background(), "fail_task", Input{})
	assert.Nil(t, out)

	var execErr *TaskExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "fail_task", execErr.Name)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTaskExecution)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestRegistry_PanicBecomesTaskExecutionError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("boom", func(ctx context.Context, in Input) (any, error) {
		panic("unexpected")
	})

	_, err := reg.Execute(context.Background(), "boom", Input{})
	assert.ErrorIs(t, err, ErrTaskExecution)
	assert.Contains(t, err.Error(), "panic: unexpected")
}

func TestRegistry_MissingParams(t *testing.T) {
	called := false
	reg := NewRegistry()
	reg.Register("search", func(ctx context.Context, in Input) (any, error) {
		called = true
		return nil, nil
	}, WithRequiredParams("query", "count"))

	_, err := reg.Execute(context.Background(), "search", Input{Params: Params{"query": "go"}})

	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, []string{"count"}, paramErr.Missing)
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.False(t, called)
}

func TestRegistry_ReRegistrationOverwrites(t *testing.T) {
	reg := NewRegistry()
	reg.Register("t", func(ctx context.Context, in Input) (any, error) { return 1, nil })
	reg.Register("t", func(ctx context.Context, in Input) (any, error) { return 2, nil }, WithDescription("second"))

	out, err := reg.Execute(context.Background(), "t", Input{})
	require.NoError(t, err)
	assert.Equal(t, 2, out)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, "second", reg.Description("t"))
}

func TestRegistry_PassesDependencyResults(t *testing.T) {
	reg := NewRegistry()
	reg.Register("consumer", func(ctx context.Context, in Input) (any, error) {
		v, ok := in.Dep("producer")
		if !ok {
			return nil, errors.New("no producer result")
		}
		return v.(string) + "!", nil
	})

	out, err := reg.Execute(context.Background(), "consumer", Input{Deps: map[string]any{"producer": "data"}})
	require.NoError(t, err)
	assert.Equal(t, "data!", out)
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()
	for _, n := range []string{"c", "a", "b"} {
		reg.Register(n, func(ctx context.Context, in Input) (any, error) { return nil, nil })
	}
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())
}

func TestParams_Accessors(t *testing.T) {
	p := Params{"s": "x", "i": 3, "f": 4.0, "bad": "7"}

	assert.Equal(t, "x", p.GetString("s"))
	assert.Equal(t, "", p.GetString("i"))

	n, ok := p.GetInt("i")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = p.GetInt("f")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = p.GetInt("bad")
	assert.False(t, ok)
}
