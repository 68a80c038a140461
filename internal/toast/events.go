package toast

import (
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// EventType names a queue transition.
type EventType string

const (
	EventEnqueued  EventType = "enqueued"
	EventUpdated   EventType = "updated"
	EventDismissed EventType = "dismissed"
)

// Event is delivered to subscribers after every transition. Toast is a
// snapshot taken when the transition happened.
type Event struct {
	Type  EventType
	Toast Toast
	// Reason is set for EventDismissed only.
	Reason domain.DismissReason
	// Replaced is set when an enqueue reused a live ID.
	Replaced bool
	At       time.Time
}

// Observer receives queue events. It runs outside the queue lock and may
// call back into the queue.
type Observer func(Event)
