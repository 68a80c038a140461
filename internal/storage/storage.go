// Package storage persists the history of dismissed toasts.
package storage

import (
	"io"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// Store is a history repository backed by a resource that must be closed.
type Store interface {
	domain.HistoryRepository
	io.Closer
}
