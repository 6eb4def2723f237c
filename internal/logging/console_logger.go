// Package logging provides the console implementation of the
// LoggingGateway port.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"pluginforge.dev/cli/internal/core/ports"
)

// ConsoleLogger writes structured log lines to a writer (stderr by
// default) so command output on stdout stays machine-readable.
type ConsoleLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level ports.LogLevel
}

// NewConsoleLogger creates a logger at the given minimum level.
func NewConsoleLogger(level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{out: os.Stderr, level: level}
}

// NewConsoleLoggerWithWriter creates a logger writing to w, for tests.
func NewConsoleLoggerWithWriter(w io.Writer, level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{out: w, level: level}
}

// Log writes a single log line with sorted key=value fields.
func (l *ConsoleLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.out, "%s [%s] %s%s\n",
		time.Now().Format(time.RFC3339), level, message, formatFields(fields))
}

// LogError logs an error with its message at error level.
func (l *ConsoleLogger) LogError(err error, message string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Log(ports.LogLevelError, message, fields)
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for _, k := range keys {
		out += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	return out
}
