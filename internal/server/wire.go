package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// infiniteMillis encodes toast.Infinite on the wire.
const infiniteMillis = -1

// ToastJSON is the wire form of an active toast.
type ToastJSON struct {
	ID          string          `json:"id"`
	Kind        domain.Kind     `json:"kind"`
	Message     string          `json:"message"`
	Description string          `json:"description,omitempty"`
	DurationMS  int64           `json:"duration_ms"`
	Dismissible bool            `json:"dismissible"`
	Position    domain.Position `json:"position"`
	Action      string          `json:"action,omitempty"`
	Cancel      string          `json:"cancel,omitempty"`
	Payload     any             `json:"payload,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toToastJSON(t toast.Toast) ToastJSON {
	out := ToastJSON{
		ID:          t.ID,
		Kind:        t.Kind,
		Message:     t.Message,
		Description: t.Description,
		DurationMS:  durationToMillis(t.Duration),
		Dismissible: t.Dismissible,
		Position:    t.Position,
		Payload:     t.Payload,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Action != nil {
		out.Action = t.Action.Label
	}
	if t.Cancel != nil {
		out.Cancel = t.Cancel.Label
	}
	return out
}

// EventJSON is a queue event as streamed over the websocket.
type EventJSON struct {
	Type     toast.EventType      `json:"type"`
	Toast    ToastJSON            `json:"toast"`
	Reason   domain.DismissReason `json:"reason,omitempty"`
	Replaced bool                 `json:"replaced,omitempty"`
	At       time.Time            `json:"at"`
}

func toEventJSON(ev toast.Event) EventJSON {
	return EventJSON{
		Type:     ev.Type,
		Toast:    toToastJSON(ev.Toast),
		Reason:   ev.Reason,
		Replaced: ev.Replaced,
		At:       ev.At,
	}
}

func (j ToastJSON) toToast() toast.Toast {
	d, err := millisToDuration(j.DurationMS)
	if err != nil {
		d = 0
	}
	t := toast.Toast{
		ID:          j.ID,
		Kind:        j.Kind,
		Message:     j.Message,
		Description: j.Description,
		Duration:    d,
		Dismissible: j.Dismissible,
		Position:    j.Position,
		Payload:     j.Payload,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.Action != "" {
		t.Action = &toast.Button{Label: j.Action}
	}
	if j.Cancel != "" {
		t.Cancel = &toast.Button{Label: j.Cancel}
	}
	return t
}

func (e EventJSON) toEvent() toast.Event {
	return toast.Event{
		Type:     e.Type,
		Toast:    e.Toast.toToast(),
		Reason:   e.Reason,
		Replaced: e.Replaced,
		At:       e.At,
	}
}

// EnqueueRequest is the body of POST /toasts.
type EnqueueRequest struct {
	ID          string `json:"id,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	// DurationMS of 0 or absent selects the default, -1 means infinite.
	DurationMS  int64           `json:"duration_ms,omitempty"`
	Position    string          `json:"position,omitempty"`
	Dismissible *bool           `json:"dismissible,omitempty"`
	Action      string          `json:"action,omitempty"`
	Cancel      string          `json:"cancel,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

func (r EnqueueRequest) toToast(dismissibleDefault bool) (toast.Toast, error) {
	d, err := millisToDuration(r.DurationMS)
	if err != nil {
		return toast.Toast{}, err
	}
	t := toast.Toast{
		ID:          r.ID,
		Kind:        domain.Kind(r.Kind),
		Message:     r.Message,
		Description: r.Description,
		Duration:    d,
		Position:    domain.Position(r.Position),
		Dismissible: dismissibleDefault,
	}
	if r.Dismissible != nil {
		t.Dismissible = *r.Dismissible
	}
	if r.Action != "" {
		t.Action = &toast.Button{Label: r.Action}
	}
	if r.Cancel != "" {
		t.Cancel = &toast.Button{Label: r.Cancel}
	}
	if len(r.Payload) > 0 {
		var payload any
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			return toast.Toast{}, fmt.Errorf("invalid payload: %w", err)
		}
		t.Payload = payload
	}
	return t, nil
}

// UpdateRequest is the body of PATCH /toasts/{id}.
type UpdateRequest struct {
	Kind        string  `json:"kind,omitempty"`
	Position    string  `json:"position,omitempty"`
	Message     *string `json:"message,omitempty"`
	Description *string `json:"description,omitempty"`
	DurationMS  *int64  `json:"duration_ms,omitempty"`
}

func (r UpdateRequest) toPatch() (toast.Patch, error) {
	p := toast.Patch{
		Message:     r.Message,
		Description: r.Description,
	}
	if r.Kind != "" {
		kind, err := domain.ParseKind(r.Kind)
		if err != nil {
			return toast.Patch{}, err
		}
		p.Kind = kind
	}
	if r.Position != "" {
		pos, err := domain.ParsePosition(r.Position)
		if err != nil {
			return toast.Patch{}, err
		}
		p.Position = pos
	}
	if r.DurationMS != nil {
		d, err := millisToDuration(*r.DurationMS)
		if err != nil {
			return toast.Patch{}, err
		}
		p.Duration = &d
	}
	return p, nil
}

// HistoryRecordJSON is the wire form of a history record.
type HistoryRecordJSON struct {
	ID          string               `json:"id"`
	ToastID     string               `json:"toast_id"`
	Kind        domain.Kind          `json:"kind"`
	Position    domain.Position      `json:"position"`
	Message     string               `json:"message"`
	Description string               `json:"description,omitempty"`
	Reason      domain.DismissReason `json:"reason"`
	CreatedAt   time.Time            `json:"created_at"`
	DismissedAt time.Time            `json:"dismissed_at"`
	LifetimeMS  int64                `json:"lifetime_ms"`
}

func toHistoryJSON(r domain.HistoryRecord) HistoryRecordJSON {
	return HistoryRecordJSON{
		ID:          r.ID,
		ToastID:     r.ToastID,
		Kind:        r.Kind,
		Position:    r.Position,
		Message:     r.Message,
		Description: r.Description,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
		DismissedAt: r.DismissedAt,
		LifetimeMS:  r.Lifetime().Milliseconds(),
	}
}

func durationToMillis(d time.Duration) int64 {
	if d == toast.Infinite {
		return infiniteMillis
	}
	return d.Milliseconds()
}

func millisToDuration(ms int64) (time.Duration, error) {
	switch {
	case ms == infiniteMillis:
		return toast.Infinite, nil
	case ms < 0:
		return 0, fmt.Errorf("%w: %dms", toast.ErrInvalidDuration, ms)
	case ms > toast.MaxDurationMillis:
		return 0, fmt.Errorf("%w: %dms is out of range", toast.ErrInvalidDuration, ms)
	default:
		return time.Duration(ms) * time.Millisecond, nil
	}
}
