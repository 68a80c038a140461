// Package history records dismissed toasts into a history store.
package history

import (
	"context"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/logging"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/google/uuid"
)

const writeTimeout = 5 * time.Second

// Recorder is a queue observer persisting one record per dismissed toast.
// Store errors are logged and never reach the queue.
type Recorder struct {
	repo   domain.HistoryRepository
	logger logging.Logger
	newID  func() string
}

// NewRecorder creates a recorder writing to repo.
func NewRecorder(repo domain.HistoryRepository, logger logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Recorder{
		repo:   repo,
		logger: logger.With("component", "history"),
		newID:  uuid.NewString,
	}
}

// Attach subscribes the recorder to q and returns the unsubscribe function.
func (r *Recorder) Attach(q *toast.Queue) func() {
	return q.Subscribe(r.Observe)
}

// Observe handles a queue event.
func (r *Recorder) Observe(ev toast.Event) {
	if ev.Type != toast.EventDismissed {
		return
	}
	record := NewRecord(r.newID(), ev)
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.repo.Record(ctx, record); err != nil {
		r.logger.Error("failed to record dismissed toast", "toast_id", ev.Toast.ID, "error", err)
		return
	}
	r.logger.Debug("recorded dismissed toast", "toast_id", ev.Toast.ID, "record_id", record.ID)
}

// NewRecord converts a dismissed event to a history record.
func NewRecord(id string, ev toast.Event) domain.HistoryRecord {
	return domain.HistoryRecord{
		ID:          id,
		ToastID:     ev.Toast.ID,
		Kind:        ev.Toast.Kind,
		Position:    ev.Toast.Position,
		Message:     ev.Toast.Message,
		Description: ev.Toast.Description,
		Reason:      ev.Reason,
		CreatedAt:   ev.Toast.CreatedAt,
		DismissedAt: ev.At,
	}
}
