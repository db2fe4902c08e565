package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTask is matched by every UnknownTaskError.
	ErrUnknownTask = errors.New("unknown task")

	// ErrTaskExecution is matched by every TaskExecutionError.
	ErrTaskExecution = errors.New("task execution failed")

	// ErrInvalidParams is matched by every ParamError.
	ErrInvalidParams = errors.New("invalid task parameters")
)

// UnknownTaskError is returned when Execute is called for a name that was
// never registered.
type UnknownTaskError struct {
	Name string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("task %q is not registered", e.Name)
}

func (e *UnknownTaskError) Unwrap() error { return ErrUnknownTask }

// TaskExecutionError wraps a failure raised by a registered task.
type TaskExecutionError struct {
	Name  string
	Cause error
}

func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("failed to execute task %q: %v", e.Name, e.Cause)
}

// Unwrap exposes both the sentinel and the original cause.
func (e *TaskExecutionError) Unwrap() []error { return []error{ErrTaskExecution, e.Cause} }

// ParamError is returned when a task is invoked without the parameters it
// declared at registration.
type ParamError struct {
	Name    string
	Missing []string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("task %q is missing required parameters: %s", e.Name, strings.Join(e.Missing, ", "))
}

func (e *ParamError) Unwrap() error { return ErrInvalidParams }
