package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// Run starts the showcase on the alternate screen and blocks until the user
// quits or ctx is done. Queue events are forwarded to the program.
func Run(ctx context.Context, q *toast.Queue, opts Options) error {
	// Structured debug lines would tear the alternate screen.
	colors.DisableStructuredLogging()
	defer colors.EnableStructuredLogging()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(runCtx, q, opts), tea.WithAltScreen(), tea.WithContext(runCtx))
	unsubscribe := q.Subscribe(func(ev toast.Event) {
		p.Send(QueueEventMsg{Event: ev})
	})
	defer unsubscribe()

	final, err := p.Run()
	if m, ok := final.(*Model); ok && opts.OnExit != nil {
		opts.OnExit(m.State())
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
