package logging

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/toastq/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Enabled  bool
	Level    string
	MaxFiles int
	// Command and PID are attached to every entry.
	Command string
	PID     int
}

// DefaultConfig returns a disabled info-level config for the current process.
func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromGlobalConfig builds a Config from the global configuration. debug
// forces the debug level and quiet raises it to error.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", "info")
	cfg.MaxFiles = config.GetInt("logging_max_files", 10)
	if config.GetBool("debug", false) {
		cfg.Level = "debug"
	} else if config.GetBool("quiet", false) {
		cfg.Level = "error"
	}
	return cfg
}

// LogDir returns {state_dir}/logs when writable, falling back to the temp dir.
func LogDir() (string, error) {
	if stateDir := config.Get("state_dir", ""); stateDir != "" {
		logDir := filepath.Join(stateDir, "logs")
		if err := os.MkdirAll(logDir, 0700); err == nil && writable(logDir) {
			return logDir, nil
		}
	}
	tempBase := filepath.Join(os.TempDir(), "toastq", "logs")
	if err := os.MkdirAll(tempBase, 0700); err != nil {
		return "", err
	}
	return tempBase, nil
}

func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
