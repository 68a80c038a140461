// Package logging provides structured logging for toastq.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/toastq/internal/colors"
)

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a child logger carrying the given key-value pairs.
	With(args ...any) Logger
	// Shutdown releases the underlying file, if any.
	Shutdown() error
}

const filePrefix = "toastq_"

type clogLogger struct {
	clogger  *clog.Logger
	closer   io.Closer
	redactor *redactor
	fields   []any
	path     string
}

// Init opens a JSON log file under LogDir and returns a logger writing to it.
// A disabled config yields Nop().
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return Nop(), nil
	}
	logDir, err := LogDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine log directory: %w", err)
	}
	if err := rotate(logDir, cfg.MaxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}
	fname := fmt.Sprintf("%s%s_PID%d_%s.log",
		filePrefix,
		time.Now().Format("20060102_150405"),
		cfg.PID,
		strings.ReplaceAll(cfg.Command, " ", "_"))
	path := filepath.Join(logDir, fname)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := newClogLogger(f, cfg, clog.JSONFormatter)
	l.closer = f
	l.path = path
	return l, nil
}

// NewWriter returns a logfmt logger writing to w. The server uses it for
// request logs on stderr.
func NewWriter(w io.Writer, cfg Config) Logger {
	return newClogLogger(w, cfg, clog.LogfmtFormatter)
}

func newClogLogger(w io.Writer, cfg Config, formatter clog.Formatter) *clogLogger {
	clogger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
	})
	clogger.SetFormatter(formatter)
	if cfg.PID != 0 {
		clogger = clogger.With("pid", cfg.PID)
	}
	if cfg.Command != "" {
		clogger = clogger.With("command", cfg.Command)
	}
	return &clogLogger{clogger: clogger, redactor: newRedactor()}
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *clogLogger) Debug(msg string, args ...any) { l.log(clog.DebugLevel, msg, args) }
func (l *clogLogger) Info(msg string, args ...any)  { l.log(clog.InfoLevel, msg, args) }
func (l *clogLogger) Warn(msg string, args ...any)  { l.log(clog.WarnLevel, msg, args) }
func (l *clogLogger) Error(msg string, args ...any) { l.log(clog.ErrorLevel, msg, args) }

func (l *clogLogger) log(level clog.Level, msg string, args []any) {
	all := make([]any, 0, len(l.fields)+len(args))
	all = append(all, l.fields...)
	all = append(all, args...)
	l.clogger.Log(level, msg, l.redactor.redact(all)...)
}

func (l *clogLogger) With(args ...any) Logger {
	fields := make([]any, 0, len(l.fields)+len(args))
	fields = append(fields, l.fields...)
	fields = append(fields, args...)
	return &clogLogger{
		clogger:  l.clogger,
		closer:   l.closer,
		redactor: l.redactor,
		fields:   fields,
		path:     l.path,
	}
}

func (l *clogLogger) Shutdown() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }
func (nopLogger) Shutdown() error      { return nil }

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

var (
	globalLogger     Logger
	globalLoggerOnce sync.Once
	globalLoggerMu   sync.RWMutex
)

// InitGlobal initializes the global logger from the global config. Only the
// first call has an effect.
func InitGlobal() error {
	var err error
	globalLoggerOnce.Do(func() {
		var l Logger
		l, err = Init(FromGlobalConfig())
		if err != nil {
			return
		}
		globalLoggerMu.Lock()
		globalLogger = l
		globalLoggerMu.Unlock()
		colors.SetLogger(l)
		if path := CurrentLogFile(); path != "" {
			colors.Debug("Logging to file:", path)
		}
	})
	return err
}

// GetGlobal returns the global logger, or Nop() if it was never initialized.
func GetGlobal() Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if globalLogger == nil {
		return Nop()
	}
	return globalLogger
}

func Debug(msg string, args ...any) { GetGlobal().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetGlobal().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetGlobal().Warn(msg, args...) }
func Error(msg string, args ...any) { GetGlobal().Error(msg, args...) }

// With returns a child of the global logger.
func With(args ...any) Logger {
	return GetGlobal().With(args...)
}

// ShutdownGlobal closes the global logger.
func ShutdownGlobal() error {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if globalLogger != nil {
		return globalLogger.Shutdown()
	}
	return nil
}

// CurrentLogFile returns the global log file path, or "" when not logging to a file.
func CurrentLogFile() string {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if impl, ok := globalLogger.(*clogLogger); ok {
		return impl.path
	}
	return ""
}
