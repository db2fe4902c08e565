// Package log provides the leveled logging interface used across automind.
//
// The Logger interface has four printf-style methods (Debug, Info, Warn,
// Error). The default implementation is a thin wrapper over
// github.com/kataras/golog:
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("Executing task: %s", name)
//
// To log to the console and to a file at the same time:
//
//	logger, closer, err := log.NewFileLogger("logs/app.log", log.LogLevelDebug)
//	if err != nil {
//		return err
//	}
//	defer closer.Close()
//
// An existing golog instance can be wrapped with NewGologLogger. Levels are
// filtered by the wrapper first, so SetLevel on the wrapper is authoritative.
//
// NoOpLogger discards everything and is what components fall back to in
// tests.
package log
