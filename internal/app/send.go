package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/toastq/internal/dedup"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/format"
	"github.com/cristianoliveira/toastq/internal/toast"
)

const (
	maxMessageLength = 1000
	// remoteDismissWait bounds how long a canceled send waits for the
	// server to confirm the dismissal.
	remoteDismissWait = 2 * time.Second
)

// SendClient defines dependencies required to send a toast. *toast.Queue and
// *server.Client satisfy it.
type SendClient interface {
	Enqueue(t toast.Toast) (string, error)
	Dismiss(id string) bool
	Subscribe(fn toast.Observer) func()
}

// SendInput represents send command inputs after flag parsing.
type SendInput struct {
	Context     context.Context
	Args        []string
	Kind        string
	Description string
	Position    string
	ID          string
	Duration    time.Duration
	Dismissible bool
	Action      string
	Cancel      string
	// Wait blocks until the toast leaves the queue.
	Wait bool
	// Output receives one line per lifecycle event of the toast.
	Output io.Writer
	Color  bool
	// Dedupe derives the ID from the content when ID is empty, so a repeated
	// send replaces the live toast.
	Dedupe        bool
	DedupCriteria dedup.Criteria
}

// SendResult reports what happened to the toast.
type SendResult struct {
	ID string
	// Reason is set when Wait observed the dismissal.
	Reason domain.DismissReason
}

// SendUseCase coordinates send behavior.
type SendUseCase struct {
	client SendClient
}

// NewSendUseCase creates a new send use-case.
func NewSendUseCase(client SendClient) *SendUseCase {
	if client == nil {
		panic("NewSendUseCase: client dependency cannot be nil")
	}
	return &SendUseCase{client: client}
}

// Execute enqueues the toast and, with Wait, blocks until it is dismissed.
// Canceling the context dismisses the toast.
func (u *SendUseCase) Execute(input SendInput) (SendResult, error) {
	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}

	t, err := buildToast(input)
	if err != nil {
		return SendResult{}, err
	}

	var printer *format.EventPrinter
	if input.Output != nil {
		printer = format.NewEventPrinter(input.Output, input.Color)
	}

	// Subscribe first; the ID is only known once Enqueue returns.
	events := make(chan toast.Event, 256)
	unsubscribe := u.client.Subscribe(func(ev toast.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	id, err := u.client.Enqueue(t)
	if err != nil {
		return SendResult{}, fmt.Errorf("send: %w", err)
	}
	result := SendResult{ID: id}

	// handle reports whether ev dismissed the toast.
	handle := func(ev toast.Event) bool {
		if ev.Toast.ID != id {
			return false
		}
		if printer != nil {
			printer.Observe(ev)
		}
		if ev.Type == toast.EventDismissed {
			result.Reason = ev.Reason
			return true
		}
		return false
	}

	if !input.Wait {
		for {
			select {
			case ev := <-events:
				handle(ev)
			default:
				return result, nil
			}
		}
	}

	var deadline <-chan time.Time
	canceled := ctx.Done()
	for {
		select {
		case ev := <-events:
			if handle(ev) {
				return result, nil
			}
		case <-canceled:
			canceled = nil
			u.client.Dismiss(id)
			deadline = time.After(remoteDismissWait)
		case <-deadline:
			return result, nil
		}
	}
}

func buildToast(input SendInput) (toast.Toast, error) {
	message := strings.TrimSpace(strings.Join(input.Args, " "))
	if err := ValidateMessage(message); err != nil {
		return toast.Toast{}, err
	}

	t := toast.Toast{
		ID:          strings.TrimSpace(input.ID),
		Kind:        domain.KindPlain,
		Message:     message,
		Description: input.Description,
		Duration:    input.Duration,
		Dismissible: input.Dismissible,
	}
	if input.Kind != "" {
		kind, err := domain.ParseKind(input.Kind)
		if err != nil {
			return toast.Toast{}, err
		}
		t.Kind = kind
	}
	if input.Position != "" {
		pos, err := domain.ParsePosition(input.Position)
		if err != nil {
			return toast.Toast{}, err
		}
		t.Position = pos
	}
	if input.Duration < 0 {
		return toast.Toast{}, fmt.Errorf("%w: %s", toast.ErrInvalidDuration, input.Duration)
	}
	if input.Action != "" {
		t.Action = &toast.Button{Label: input.Action}
	}
	if input.Cancel != "" {
		t.Cancel = &toast.Button{Label: input.Cancel}
	}
	if input.Dedupe && t.ID == "" {
		t.ID = dedup.ToastID(dedup.Record{
			Kind:        t.Kind,
			Position:    t.Position,
			Message:     t.Message,
			Description: t.Description,
		}, input.DedupCriteria)
	}
	return t, nil
}

// ValidateMessage checks message length and emptiness.
func ValidateMessage(message string) error {
	if len(message) > maxMessageLength {
		return fmt.Errorf("message too long (max %d characters)", maxMessageLength)
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// ParseDuration parses a toast duration flag. It accepts Go durations
// ("1.5s"), plain milliseconds ("1500"), "infinite"/"inf", and "" or "0"
// for the queue default.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "0":
		return 0, nil
	case "inf", "infinite", "forever":
		return toast.Infinite, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("%w: %dms", toast.ErrInvalidDuration, ms)
		}
		if ms > toast.MaxDurationMillis {
			return 0, fmt.Errorf("%w: %dms is out of range", toast.ErrInvalidDuration, ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: use 1.5s, 1500 or infinite", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s", toast.ErrInvalidDuration, d)
	}
	return d, nil
}
