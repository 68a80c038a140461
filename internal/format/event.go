package format

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// EventLine renders a queue event as a single line, e.g.
//
//	15:04:05.000 dismissed  3 success "Saved" (auto)
//
// With color the kind is wrapped in its ANSI color.
func EventLine(ev toast.Event, color bool) string {
	kind := ev.Toast.Kind.String()
	if color {
		kind = colors.Colorize(ev.Toast.Kind, kind)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-9s %s %s %q",
		ev.At.Local().Format("15:04:05.000"), ev.Type, ev.Toast.ID, kind, ev.Toast.Message)
	switch {
	case ev.Type == toast.EventDismissed:
		fmt.Fprintf(&b, " (%s)", ev.Reason)
	case ev.Replaced:
		b.WriteString(" (replaced)")
	case ev.Type == toast.EventEnqueued && !ev.Toast.IsInfinite() && ev.Toast.Kind != domain.KindLoading:
		fmt.Fprintf(&b, " ttl=%s", ev.Toast.Duration.Round(time.Millisecond))
	}
	return b.String()
}

// EventPrinter writes one EventLine per observed event. It is safe to use as
// a queue observer.
type EventPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
	err   error
}

// NewEventPrinter creates a printer writing to w.
func NewEventPrinter(w io.Writer, color bool) *EventPrinter {
	return &EventPrinter{w: w, color: color}
}

// Observe prints ev. The first write error is kept and later events are dropped.
func (p *EventPrinter) Observe(ev toast.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, EventLine(ev, p.color))
}

// Err returns the first write error.
func (p *EventPrinter) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
