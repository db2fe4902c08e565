// Package task provides the named task registry used by the planner.
//
// A task is a Func bound to a name. Instead of free-form keyword arguments
// every task receives a single Input value carrying its own Params and the
// results of its direct dependencies:
//
//	reg := task.NewRegistry()
//	reg.Register("greet", func(ctx context.Context, in task.Input) (any, error) {
//		return "Hello, " + in.Params.GetString("name") + "!", nil
//	}, task.WithRequiredParams("name"))
//
//	out, err := reg.Execute(ctx, "greet", task.Input{Params: task.Params{"name": "Ada"}})
//
// Execute fails with UnknownTaskError for unregistered names, ParamError
// when a declared parameter is missing and TaskExecutionError when the task
// itself fails. All three match their package sentinels with errors.Is.
package task
