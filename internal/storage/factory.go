package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/storage/sqlite"
)

const (
	// BackendSQLite stores history in {state_dir}/history.db.
	BackendSQLite = "sqlite"
	// BackendMemory keeps history for the lifetime of the process.
	BackendMemory = "memory"

	historyDBFileName = "history.db"
)

var _ Store = (*sqlite.Store)(nil)

// NewFromConfig creates the history store selected by history_backend.
// Config must already be loaded.
func NewFromConfig() (Store, error) {
	return NewForBackend(config.Get("history_backend", BackendSQLite), config.Get("state_dir", ""))
}

// NewForBackend creates a store for the named backend. A sqlite store that
// cannot be opened falls back to memory with a warning.
func NewForBackend(backend, stateDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendSQLite:
		if stateDir == "" {
			return nil, fmt.Errorf("history store: state_dir is not set")
		}
		store, err := sqlite.Open(filepath.Join(stateDir, historyDBFileName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to open sqlite history, falling back to memory: %v", err))
			return NewMemoryStore(), nil
		}
		return store, nil
	default:
		colors.Warning(fmt.Sprintf("unknown history backend '%s', falling back to memory", backend))
		return NewMemoryStore(), nil
	}
}
