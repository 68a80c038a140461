// Package colors provides color console output mirrored into the structured logger.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// Color constants
const (
	Red     = "\033[0;31m"
	Green   = "\033[0;32m"
	Yellow  = "\033[1;33m"
	Blue    = "\033[0;34m"
	Magenta = "\033[0;35m"
	Cyan    = "\033[0;36m"
	Gray    = "\033[0;90m"
	Reset   = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled = false
	logger       Logger
	loggerMu     sync.RWMutex

	outMu  sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("TOASTQ_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debugEnabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil writers restore the process streams.
func SetOutput(out, errOut io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// emit writes a formatted line. A failed console write falls back to a plain
// stderr line so output errors never recurse.
func emit(toErr bool, format string, args ...any) {
	outMu.Lock()
	w := stdout
	if toErr {
		w = stderr
	}
	_, err := fmt.Fprintf(w, format, args...)
	outMu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to print message: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Error(msg)
	}
	emit(true, "%sError:%s %s\n", Red, Reset, msg)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg, "type", "success")
	}
	emit(false, "%s%s%s %s\n", Green, checkmark, Reset, msg)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Warn(msg)
	}
	emit(true, "%sWarning:%s %s\n", Yellow, Reset, msg)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	emit(false, "%s%s%s\n", Blue, msg, Reset)
}

// LogInfo outputs an informational message to stderr, keeping stdout clean
// for machine-readable output.
func LogInfo(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	emit(true, "%s%s%s\n", Blue, msg, Reset)
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !debugEnabled {
		return
	}
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Debug(msg)
	}
	emit(true, "%sDebug:%s %s\n", Cyan, Reset, msg)
}

// ForKind returns the ANSI color used to print a toast of the given kind.
func ForKind(kind domain.Kind) string {
	switch kind {
	case domain.KindSuccess:
		return Green
	case domain.KindError:
		return Red
	case domain.KindWarning:
		return Yellow
	case domain.KindInfo:
		return Blue
	case domain.KindLoading:
		return Cyan
	case domain.KindCustom:
		return Magenta
	default:
		return ""
	}
}

// Colorize wraps text in the kind's color. Plain toasts are returned as is.
func Colorize(kind domain.Kind, text string) string {
	color := ForKind(kind)
	if color == "" {
		return text
	}
	return color + text + Reset
}
