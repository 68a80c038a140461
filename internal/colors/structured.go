package colors

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

var structuredLoggingEnabled atomic.Bool

func init() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLogLevel represents log level for structured logs.
type StructuredLogLevel string

const (
	LevelDebug StructuredLogLevel = "debug"
	LevelInfo  StructuredLogLevel = "info"
	LevelWarn  StructuredLogLevel = "warn"
	LevelError StructuredLogLevel = "error"
)

// StructuredLogEntry is a single JSON line written by StructuredLog.
type StructuredLogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     StructuredLogLevel     `json:"level"`
	Component string                 `json:"component"`
	Action    string                 `json:"action"`
	Error     string                 `json:"error,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// DisableStructuredLogging disables structured output. The terminal
// showcase turns it off so JSON lines do not corrupt the screen.
func DisableStructuredLogging() {
	structuredLoggingEnabled.Store(false)
}

// EnableStructuredLogging enables structured logging output.
func EnableStructuredLogging() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLog writes a JSON entry to stderr when debug mode is on.
func StructuredLog(level StructuredLogLevel, component, action string, err error, fields map[string]interface{}) {
	if !debugEnabled || !structuredLoggingEnabled.Load() {
		return
	}

	entry := StructuredLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: component,
		Action:    action,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal structured log: %v\n", marshalErr)
		return
	}
	emit(true, "%s\n", data)
}

// StructuredDebug logs a structured debug entry.
func StructuredDebug(component, action string, err error, fields map[string]interface{}) {
	StructuredLog(LevelDebug, component, action, err, fields)
}

// StructuredInfo logs a structured info entry.
func StructuredInfo(component, action string, err error, fields map[string]interface{}) {
	StructuredLog(LevelInfo, component, action, err, fields)
}

// StructuredWarn logs a structured warning entry.
func StructuredWarn(component, action string, err error, fields map[string]interface{}) {
	StructuredLog(LevelWarn, component, action, err, fields)
}

// StructuredError logs a structured error entry.
func StructuredError(component, action string, err error, fields map[string]interface{}) {
	StructuredLog(LevelError, component, action, err, fields)
}
