package planner

import (
	"errors"
	"fmt"
)

// ErrPlanExecution is matched by every PlanExecutionError.
var ErrPlanExecution = errors.New("plan execution failed")

// PlanExecutionError reports why a plan run stopped. Task is empty when the
// plan failed before any task was selected, for example on a cycle.
type PlanExecutionError struct {
	Task  string
	Cause error
}

func (e *PlanExecutionError) Error() string {
	if e.Task == "" {
		return fmt.Sprintf("plan execution failed: %v", e.Cause)
	}
	return fmt.Sprintf("plan execution failed at task %q: %v", e.Task, e.Cause)
}

func (e *PlanExecutionError) Unwrap() []error {
	return []error{ErrPlanExecution, e.Cause}
}
