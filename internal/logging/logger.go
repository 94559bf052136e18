// Package logging provides the formatted logger shared by the server, the REPL
// and the command line.
//
// Output always goes to stderr by default because stdout carries the MCP stdio
// stream.
package logging

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// redacted replaces credential values in traced arguments
const redacted = "[REDACTED]"

// sensitiveKeys are argument names whose values never reach the log
var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"private_token": {},
	"privateToken":  {},
}

// Logger is a printf-style logger with verbose and trace switches
type Logger struct {
	mu        sync.Mutex
	log       *log.Logger
	writer    io.Writer
	verbose   bool
	useColor  bool
	traceMode bool
}

// NewLogger creates a logger writing to stderr
func NewLogger(verbose, useColor, traceMode bool) *Logger {
	return NewLoggerWithWriter(verbose, useColor, traceMode, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to w
func NewLoggerWithWriter(verbose, useColor, traceMode bool, w io.Writer) *Logger {
	l := &Logger{
		writer:    w,
		verbose:   verbose,
		useColor:  useColor,
		traceMode: traceMode,
	}
	l.log = l.newBackend(w)
	return l
}

func (l *Logger) newBackend(w io.Writer) *log.Logger {
	backend := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "fq-ui",
		Level:           log.InfoLevel,
	})
	if l.verbose {
		backend.SetLevel(log.DebugLevel)
	}
	if !l.useColor {
		backend.SetColorProfile(termenv.Ascii)
	}
	return backend
}

// SetVerbose toggles debug and verbose output
func (l *Logger) SetVerbose(verbose bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	if verbose {
		l.log.SetLevel(log.DebugLevel)
	} else {
		l.log.SetLevel(log.InfoLevel)
	}
}

// Verbose reports whether verbose output is enabled
func (l *Logger) Verbose() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// SetWriter redirects all further output to w
func (l *Logger) SetWriter(w io.Writer) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
	l.log.SetOutput(w)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Infof(format, args...)
}

// Success logs a completed step
func (l *Logger) Success(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Infof("✓ "+format, args...)
}

// Warning logs a warning
func (l *Logger) Warning(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Warnf(format, args...)
}

// Error logs an error
func (l *Logger) Error(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Errorf(format, args...)
}

// Debug logs only when verbose is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Debugf(format, args...)
}

// InfoVerbose logs at info level, but only when verbose is enabled
func (l *Logger) InfoVerbose(format string, args ...interface{}) {
	if l == nil || !l.Verbose() {
		return
	}
	l.log.Infof(format, args...)
}

// WarningVerbose logs at warning level, but only when verbose is enabled
func (l *Logger) WarningVerbose(format string, args ...interface{}) {
	if l == nil || !l.Verbose() {
		return
	}
	l.log.Warnf(format, args...)
}

// With returns a child logger carrying the given key/value pairs on every line.
// The child shares the parent's writer and switches at the time of the call.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		log:       l.log.With(keyvals...),
		writer:    l.writer,
		verbose:   l.verbose,
		useColor:  l.useColor,
		traceMode: l.traceMode,
	}
}

// ToolRequest logs an incoming tool call in trace mode. Credential arguments
// are redacted.
func (l *Logger) ToolRequest(tool string, args map[string]interface{}) {
	if l == nil || !l.traceMode {
		return
	}
	l.log.Info("→ tool call", "tool", tool, "arguments", formatArgs(args))
}

// ToolResponse logs the outcome of a tool call in trace mode
func (l *Logger) ToolResponse(tool string, isError bool, size int) {
	if l == nil || !l.traceMode {
		return
	}
	l.log.Info("← tool result", "tool", tool, "error", isError, "bytes", size)
}

// RedactArgs returns a copy of args with credential values replaced
func RedactArgs(args map[string]interface{}) map[string]interface{} {
	if args == nil {
		return nil
	}
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		if _, ok := sensitiveKeys[k]; ok {
			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				out[k] = v
				continue
			}
			out[k] = redacted
			continue
		}
		out[k] = v
	}
	return out
}

func formatArgs(args map[string]interface{}) string {
	safe := RedactArgs(args)
	if len(safe) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(safe))
	for k, v := range safe {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	slices.Sort(parts)
	return "{" + strings.Join(parts, " ") + "}"
}
