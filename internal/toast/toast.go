// Package toast implements an in-process queue of transient notifications.
//
// A Queue owns the set of active toasts. Each toast is auto-dismissed after
// its duration unless the duration is Infinite or the toast is loading.
// Toasts can be bound to an asynchronous operation with Promise, which shows a
// loading toast and morphs it into a success or error toast once the
// operation settles.
package toast

import (
	"errors"
	"math"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// Infinite keeps a toast on screen until it is dismissed explicitly.
const Infinite = time.Duration(math.MaxInt64)

// DefaultDuration is used when a toast is enqueued with a zero duration.
const DefaultDuration = 4 * time.Second

var (
	ErrInvalidKind     = errors.New("invalid toast kind")
	ErrInvalidPosition = errors.New("invalid toast position")
	ErrInvalidDuration = errors.New("toast duration must not be negative")
	ErrIDExhausted     = errors.New("no free toast ID")
)

// MaxDurationMillis is the longest finite duration expressible in
// milliseconds without overflowing time.Duration.
const MaxDurationMillis = math.MaxInt64 / int64(time.Millisecond)

// Button is an action or cancel affordance attached to a toast.
type Button struct {
	Label   string
	OnClick func(Toast)
	// KeepOpen leaves the toast on screen after OnClick runs.
	KeepOpen bool
}

// Toast is a single notification.
type Toast struct {
	ID          string
	Kind        domain.Kind
	Message     string
	Description string
	// Duration is the time to live. Zero selects the queue default.
	Duration    time.Duration
	Dismissible bool
	Action      *Button
	Cancel      *Button
	Position    domain.Position
	OnDismiss   func(Toast)
	OnAutoClose func(Toast)
	// Payload carries arbitrary data, typically for custom toasts.
	Payload any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsInfinite reports whether the toast is never dismissed by its timer.
func (t Toast) IsInfinite() bool {
	return t.Duration == Infinite
}

// expires reports whether the toast should have an auto-dismiss timer.
func (t Toast) expires() bool {
	return !t.IsInfinite() && t.Kind != domain.KindLoading
}

// Patch describes an in-place change to an active toast. Zero and nil
// fields are left untouched.
type Patch struct {
	Kind        domain.Kind
	Position    domain.Position
	Message     *string
	Description *string
	Duration    *time.Duration
	Action      *Button
	Cancel      *Button
	Payload     any
}

// String returns a pointer to s, for Patch fields.
func String(s string) *string {
	return &s
}

// Duration returns a pointer to d, for Patch fields.
func Duration(d time.Duration) *time.Duration {
	return &d
}

// ToastOption customizes a toast built by the queue shortcuts.
type ToastOption func(*Toast)

// WithID sets the toast ID. Enqueueing a live ID replaces that toast.
func WithID(id string) ToastOption {
	return func(t *Toast) { t.ID = id }
}

// WithDescription sets the secondary text.
func WithDescription(description string) ToastOption {
	return func(t *Toast) { t.Description = description }
}

// WithDuration sets the time to live. Zero selects the queue default.
func WithDuration(d time.Duration) ToastOption {
	return func(t *Toast) { t.Duration = d }
}

// WithPosition sets the anchor the toast stacks at.
func WithPosition(p domain.Position) ToastOption {
	return func(t *Toast) { t.Position = p }
}

// WithAction attaches an action button.
func WithAction(label string, onClick func(Toast)) ToastOption {
	return func(t *Toast) { t.Action = &Button{Label: label, OnClick: onClick} }
}

// WithCancel attaches a cancel button.
func WithCancel(label string, onClick func(Toast)) ToastOption {
	return func(t *Toast) { t.Cancel = &Button{Label: label, OnClick: onClick} }
}

// WithOnDismiss sets the callback run once when the toast is removed.
func WithOnDismiss(fn func(Toast)) ToastOption {
	return func(t *Toast) { t.OnDismiss = fn }
}

// WithOnAutoClose sets the callback run when the timer expires.
func WithOnAutoClose(fn func(Toast)) ToastOption {
	return func(t *Toast) { t.OnAutoClose = fn }
}

// WithPayload attaches arbitrary data, typically for custom toasts.
func WithPayload(payload any) ToastOption {
	return func(t *Toast) { t.Payload = payload }
}

// NotDismissible hides the manual close affordance.
func NotDismissible() ToastOption {
	return func(t *Toast) { t.Dismissible = false }
}
