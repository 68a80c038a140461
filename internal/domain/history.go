package domain

import (
	"fmt"
	"strings"
	"time"
)

// HistoryRecord is a dismissed toast as persisted by the history store.
type HistoryRecord struct {
	ID          string
	ToastID     string
	Kind        Kind
	Position    Position
	Message     string
	Description string
	Reason      DismissReason
	CreatedAt   time.Time
	DismissedAt time.Time
}

// Lifetime returns how long the toast was active.
func (r *HistoryRecord) Lifetime() time.Duration {
	if r.CreatedAt.IsZero() || r.DismissedAt.Before(r.CreatedAt) {
		return 0
	}
	return r.DismissedAt.Sub(r.CreatedAt)
}

// Validate validates the record and returns an error if invalid.
func (r *HistoryRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("history record ID cannot be empty")
	}
	if strings.TrimSpace(r.ToastID) == "" {
		return fmt.Errorf("history record toast ID cannot be empty")
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("invalid toast kind: %s", r.Kind)
	}
	if !r.Position.IsValid() {
		return fmt.Errorf("invalid toast position: %s", r.Position)
	}
	if !r.Reason.IsValid() {
		return fmt.Errorf("invalid dismiss reason: %s", r.Reason)
	}
	if r.DismissedAt.IsZero() {
		return fmt.Errorf("history record dismissed time cannot be empty")
	}
	return nil
}
