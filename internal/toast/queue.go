package toast

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cristianoliveira/toastq/internal/clock"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/logging"
)

// maxIDAttempts bounds how often the ID generator is asked for a free ID.
const maxIDAttempts = 100

type entry struct {
	toast Toast
	// token identifies this insertion. A toast re-enqueued after a dismissal
	// under the same ID gets a new token; a replacement keeps it.
	token uint64
	// gen invalidates timers armed for an earlier state of the toast.
	gen      uint64
	timer    clock.Timer
	deadline time.Time
	// remaining is the time left on a timer frozen by Pause.
	remaining time.Duration
	frozen    bool
}

type subscriber struct {
	id uint64
	fn Observer
}

// Queue holds the active toasts. It is safe for concurrent use.
type Queue struct {
	mu sync.Mutex

	clock           clock.Clock
	logger          logging.Logger
	defaultDuration time.Duration
	defaultPosition domain.Position
	dismissible     bool
	newID           func() string

	entries map[string]*entry
	order   []string
	paused  bool
	counter uint64
	tokens  uint64

	subs    []subscriber
	nextSub uint64
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock sets the clock used for timestamps and timers.
func WithClock(c clock.Clock) Option {
	return func(q *Queue) { q.clock = c }
}

// WithDefaultDuration sets the duration applied to toasts enqueued with zero.
func WithDefaultDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.defaultDuration = d
		}
	}
}

// WithDefaultPosition sets the position applied to toasts without one.
func WithDefaultPosition(p domain.Position) Option {
	return func(q *Queue) {
		if p.IsValid() {
			q.defaultPosition = p
		}
	}
}

// WithDismissible sets whether toasts built by the shortcuts are dismissible.
func WithDismissible(dismissible bool) Option {
	return func(q *Queue) { q.dismissible = dismissible }
}

// WithIDGenerator replaces the default incrementing ID generator. fn runs
// with the queue locked and must not call back into the queue.
func WithIDGenerator(fn func() string) Option {
	return func(q *Queue) { q.newID = fn }
}

// WithLogger sets the logger for queue diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		clock:           clock.Real{},
		logger:          logging.Nop(),
		defaultDuration: DefaultDuration,
		defaultPosition: domain.PositionBottomRight,
		dismissible:     true,
		entries:         make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.newID == nil {
		q.newID = q.nextCounterID
	}
	return q
}

func (q *Queue) nextCounterID() string {
	q.counter++
	return strconv.FormatUint(q.counter, 10)
}

// Enqueue adds t to the queue and returns its ID. An empty ID is generated.
// If a toast with the same ID is active it is replaced in place and keeps its
// arrival slot.
func (q *Queue) Enqueue(t Toast) (string, error) {
	id, _, err := q.enqueue(t)
	return id, err
}

// enqueue is Enqueue that also returns the insertion token of the entry.
func (q *Queue) enqueue(t Toast) (string, uint64, error) {
	if t.Kind == "" {
		t.Kind = domain.KindPlain
	}
	if !t.Kind.IsValid() {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidKind, t.Kind)
	}
	if t.Duration < 0 {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidDuration, t.Duration)
	}

	q.mu.Lock()
	if t.Position == "" {
		t.Position = q.defaultPosition
	}
	if !t.Position.IsValid() {
		q.mu.Unlock()
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidPosition, t.Position)
	}
	if t.Duration == 0 {
		t.Duration = q.defaultDuration
	}
	if t.ID == "" {
		id, err := q.uniqueIDLocked()
		if err != nil {
			q.mu.Unlock()
			return "", 0, err
		}
		t.ID = id
	}

	now := q.clock.Now()
	t.UpdatedAt = now
	e, replaced := q.entries[t.ID]
	if replaced {
		q.stopLocked(e)
		t.CreatedAt = e.toast.CreatedAt
	} else {
		t.CreatedAt = now
		q.tokens++
		e = &entry{token: q.tokens}
		q.entries[t.ID] = e
		q.order = append(q.order, t.ID)
	}
	e.toast = t
	q.armLocked(e, t.Duration)
	token := e.token
	subs := q.subscribersLocked()
	q.mu.Unlock()

	q.logger.Debug("toast enqueued", "id", t.ID, "kind", t.Kind, "position", t.Position, "replaced", replaced)
	notify(subs, Event{Type: EventEnqueued, Toast: t, Replaced: replaced, At: now})
	return t.ID, token, nil
}

func (q *Queue) uniqueIDLocked() (string, error) {
	for range maxIDAttempts {
		id := q.newID()
		if _, live := q.entries[id]; id != "" && !live {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIDExhausted, maxIDAttempts)
}

// Update applies p to the active toast with the given id and re-arms its
// timer. It returns false when the id is unknown.
func (q *Queue) Update(id string, p Patch) bool {
	return q.update(id, 0, p)
}

// update applies p only while the entry still carries token. A zero token
// matches any entry.
func (q *Queue) update(id string, token uint64, p Patch) bool {
	q.mu.Lock()
	e, ok := q.entries[id]
	if !ok {
		q.mu.Unlock()
		q.logger.Debug("update ignored for unknown toast", "id", id)
		return false
	}
	if token != 0 && e.token != token {
		q.mu.Unlock()
		q.logger.Debug("update ignored for re-enqueued toast", "id", id)
		return false
	}

	t := e.toast
	if p.Kind != "" {
		if p.Kind.IsValid() {
			t.Kind = p.Kind
		} else {
			q.logger.Warn("ignoring invalid kind in update", "id", id, "kind", p.Kind)
		}
	}
	if p.Position != "" {
		if p.Position.IsValid() {
			t.Position = p.Position
		} else {
			q.logger.Warn("ignoring invalid position in update", "id", id, "position", p.Position)
		}
	}
	if p.Message != nil {
		t.Message = *p.Message
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Duration != nil {
		switch d := *p.Duration; {
		case d < 0:
			q.logger.Warn("ignoring negative duration in update", "id", id, "duration", d)
		case d == 0:
			t.Duration = q.defaultDuration
		default:
			t.Duration = d
		}
	}
	if p.Action != nil {
		t.Action = p.Action
	}
	if p.Cancel != nil {
		t.Cancel = p.Cancel
	}
	if p.Payload != nil {
		t.Payload = p.Payload
	}

	now := q.clock.Now()
	t.UpdatedAt = now
	q.stopLocked(e)
	e.toast = t
	q.armLocked(e, t.Duration)
	subs := q.subscribersLocked()
	q.mu.Unlock()

	q.logger.Debug("toast updated", "id", id, "kind", t.Kind)
	notify(subs, Event{Type: EventUpdated, Toast: t, At: now})
	return true
}

// Dismiss removes the toast and runs its OnDismiss callback. Unknown ids are
// ignored, so calling it twice has the same effect as calling it once.
func (q *Queue) Dismiss(id string) bool {
	return q.dismiss(id, domain.ReasonManual)
}

// DismissAll dismisses every active toast in arrival order and returns how
// many were removed.
func (q *Queue) DismissAll() int {
	q.mu.Lock()
	removed := make([]Toast, 0, len(q.order))
	for _, id := range q.order {
		e := q.entries[id]
		q.stopLocked(e)
		removed = append(removed, e.toast)
	}
	q.entries = make(map[string]*entry)
	q.order = nil
	now := q.clock.Now()
	subs := q.subscribersLocked()
	q.mu.Unlock()

	for _, t := range removed {
		if t.OnDismiss != nil {
			t.OnDismiss(t)
		}
		notify(subs, Event{Type: EventDismissed, Toast: t, Reason: domain.ReasonAll, At: now})
	}
	if len(removed) > 0 {
		q.logger.Debug("dismissed all toasts", "count", len(removed))
	}
	return len(removed)
}

func (q *Queue) dismiss(id string, reason domain.DismissReason) bool {
	q.mu.Lock()
	e, ok := q.entries[id]
	if !ok {
		q.mu.Unlock()
		return false
	}
	q.stopLocked(e)
	q.removeLocked(id)
	t := e.toast
	now := q.clock.Now()
	subs := q.subscribersLocked()
	q.mu.Unlock()

	q.logger.Debug("toast dismissed", "id", id, "reason", reason)
	if t.OnDismiss != nil {
		t.OnDismiss(t)
	}
	notify(subs, Event{Type: EventDismissed, Toast: t, Reason: reason, At: now})
	return true
}

// expire is the timer callback. A generation mismatch means the toast was
// updated, replaced or paused after the timer was armed.
func (q *Queue) expire(id string, gen uint64) {
	q.mu.Lock()
	e, ok := q.entries[id]
	if !ok || e.gen != gen {
		q.mu.Unlock()
		return
	}
	e.timer = nil
	q.removeLocked(id)
	t := e.toast
	now := q.clock.Now()
	subs := q.subscribersLocked()
	q.mu.Unlock()

	q.logger.Debug("toast expired", "id", id)
	if t.OnAutoClose != nil {
		t.OnAutoClose(t)
	}
	if t.OnDismiss != nil {
		t.OnDismiss(t)
	}
	notify(subs, Event{Type: EventDismissed, Toast: t, Reason: domain.ReasonAuto, At: now})
}

// TriggerAction runs the toast's action callback and dismisses it unless the
// action keeps it open. It returns false when the toast or action is missing.
func (q *Queue) TriggerAction(id string) bool {
	return q.trigger(id, func(t Toast) *Button { return t.Action }, domain.ReasonAction)
}

// TriggerCancel runs the toast's cancel callback and dismisses it.
func (q *Queue) TriggerCancel(id string) bool {
	return q.trigger(id, func(t Toast) *Button { return t.Cancel }, domain.ReasonCancel)
}

func (q *Queue) trigger(id string, pick func(Toast) *Button, reason domain.DismissReason) bool {
	t, ok := q.Get(id)
	if !ok {
		return false
	}
	b := pick(t)
	if b == nil {
		return false
	}
	if b.OnClick != nil {
		b.OnClick(t)
	}
	if !b.KeepOpen || reason == domain.ReasonCancel {
		q.dismiss(id, reason)
	}
	return true
}

// Pause freezes every auto-dismiss timer, keeping the time left.
func (q *Queue) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.paused {
		return
	}
	q.paused = true
	now := q.clock.Now()
	for _, e := range q.entries {
		if e.timer == nil {
			continue
		}
		remaining := e.deadline.Sub(now)
		q.stopLocked(e)
		e.frozen = true
		e.remaining = max(remaining, 0)
	}
}

// Resume re-arms the timers frozen by Pause with their remaining time.
func (q *Queue) Resume() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.paused {
		return
	}
	q.paused = false
	for _, e := range q.entries {
		if e.frozen {
			q.armLocked(e, e.remaining)
		}
	}
}

// Paused reports whether timers are frozen.
func (q *Queue) Paused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}

// armLocked schedules the auto-dismiss timer for e after d. Toasts that do not
// expire get no timer. While paused the timer is recorded as frozen.
func (q *Queue) armLocked(e *entry, d time.Duration) {
	e.gen++
	e.frozen = false
	e.remaining = 0
	if !e.toast.expires() {
		return
	}
	if q.paused {
		e.frozen = true
		e.remaining = d
		return
	}
	id, gen := e.toast.ID, e.gen
	e.deadline = q.clock.Now().Add(d)
	e.timer = q.clock.AfterFunc(d, func() { q.expire(id, gen) })
}

func (q *Queue) stopLocked(e *entry) {
	e.gen++
	e.frozen = false
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (q *Queue) removeLocked(id string) {
	delete(q.entries, id)
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}

// Get returns a snapshot of the active toast with the given id.
func (q *Queue) Get(id string) (Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[id]
	if !ok {
		return Toast{}, false
	}
	return e.toast, true
}

// lookup is Get that also returns the insertion token.
func (q *Queue) lookup(id string) (Toast, uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[id]
	if !ok {
		return Toast{}, 0, false
	}
	return e.toast, e.token, true
}

// Remaining returns the time left before the toast auto-dismisses. ok is
// false for unknown ids and for toasts without a timer.
func (q *Queue) Remaining(id string) (time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[id]
	switch {
	case !ok:
		return 0, false
	case e.frozen:
		return e.remaining, true
	case e.timer != nil:
		return max(e.deadline.Sub(q.clock.Now()), 0), true
	default:
		return 0, false
	}
}

// Len returns the number of active toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Active returns snapshots of every active toast in arrival order.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, q.entries[id].toast)
	}
	return out
}

// Stack returns the toasts anchored at p in arrival order.
func (q *Queue) Stack(p domain.Position) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Toast
	for _, id := range q.order {
		if t := q.entries[id].toast; t.Position == p {
			out = append(out, t)
		}
	}
	return out
}

// Visible returns at most n toasts of the stack at p, newest first.
// A non-positive n returns the whole stack.
func (q *Queue) Visible(p domain.Position, n int) []Toast {
	stack := q.Stack(p)
	out := make([]Toast, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		if n > 0 && len(out) == n {
			break
		}
		out = append(out, stack[i])
	}
	return out
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it.
func (q *Queue) Subscribe(fn Observer) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextSub++
	id := q.nextSub
	q.subs = append(q.subs, subscriber{id: id, fn: fn})
	var once sync.Once
	return func() {
		once.Do(func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			for i, s := range q.subs {
				if s.id == id {
					q.subs = append(q.subs[:i:i], q.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (q *Queue) subscribersLocked() []Observer {
	if len(q.subs) == 0 {
		return nil
	}
	out := make([]Observer, len(q.subs))
	for i, s := range q.subs {
		out[i] = s.fn
	}
	return out
}

func notify(subs []Observer, ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
