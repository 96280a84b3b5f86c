// Package logger writes pipeline traces to stderr when --verbose is set.
// Every function is a no-op otherwise, so call sites need no guards.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose turns tracing on or off.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose reports whether tracing is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects traces. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// Debug traces a pipeline step.
func Debug(format string, args ...any) { emit(levelDebug, format, args) }

// Info traces a notable event, such as a watcher reload.
func Info(format string, args ...any) { emit(levelInfo, format, args) }

// Warn traces a problem that did not stop the operation.
func Warn(format string, args ...any) { emit(levelWarn, format, args) }

// Section starts a named block of traces, one per pipeline run.
func Section(name string) {
	write(func(w io.Writer) {
		fmt.Fprintf(w, "\n=== %s ===\n", name)
	})
}

// Timed returns a func that traces the time since Timed was called:
//
//	defer logger.Timed("Ask")()
func Timed(stage string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", stage, time.Since(start).Round(time.Millisecond))
	}
}

func emit(lvl level, format string, args []any) {
	write(func(w io.Writer) {
		fmt.Fprintf(w, "[%s] %s\n", lvl, fmt.Sprintf(format, args...))
	})
}

func write(fn func(io.Writer)) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fn(output)
	}
}
