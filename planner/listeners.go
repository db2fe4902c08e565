package planner

import (
	"context"
	"time"

	"github.com/automind-ai/automind/log"
)

// EventType identifies a point in the lifecycle of a plan run.
type EventType string

const (
	EventPlanStart    EventType = "plan_start"
	EventTaskStart    EventType = "task_start"
	EventTaskComplete EventType = "task_complete"
	EventTaskError    EventType = "task_error"
	EventTaskSkipped  EventType = "task_skipped"
	EventPlanEnd      EventType = "plan_end"
)

// Event is delivered to listeners. Task is empty for plan-level events.
type Event struct {
	Type      EventType
	RunID     string
	Task      string
	Result    any
	Err       error
	Duration  time.Duration
	Timestamp time.Time
}

// Listener observes plan execution. Events of one run are delivered one at a
// time, even in parallel mode.
type Listener interface {
	OnEvent(ctx context.Context, event Event)
}

// ListenerFunc is a function adapter for Listener
type ListenerFunc func(ctx context.Context, event Event)

// OnEvent implements the Listener interface
func (f ListenerFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// LoggingListener writes every event to a logger.
type LoggingListener struct {
	logger log.Logger
}

// NewLoggingListener creates a listener that logs to logger. A nil logger
// uses the package default.
func NewLoggingListener(logger log.Logger) *LoggingListener {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &LoggingListener{logger: logger}
}

// OnEvent implements the Listener interface
func (l *LoggingListener) OnEvent(_ context.Context, e Event) {
	switch e.Type {
	case EventPlanStart:
		l.logger.Info("[%s] plan started", e.RunID)
	case EventTaskStart:
		l.logger.Debug("[%s] task %s started", e.RunID, e.Task)
	case EventTaskComplete:
		l.logger.Info("[%s] task %s completed in %v", e.RunID, e.Task, e.Duration)
	case EventTaskError:
		l.logger.Error("[%s] task %s failed after %v: %v", e.RunID, e.Task, e.Duration, e.Err)
	case EventTaskSkipped:
		l.logger.Warn("[%s] task %s skipped", e.RunID, e.Task)
	case EventPlanEnd:
		if e.Err != nil {
			l.logger.Error("[%s] plan failed in %v: %v", e.RunID, e.Duration, e.Err)
			return
		}
		l.logger.Info("[%s] plan completed in %v", e.RunID, e.Duration)
	}
}
