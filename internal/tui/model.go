// Package tui implements the interactive toast showcase.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/errors"
	"github.com/cristianoliveira/toastq/internal/format"
	"github.com/cristianoliveira/toastq/internal/toast"
)

const (
	headerFooterLines     = 4
	defaultViewportWidth  = 100
	defaultViewportHeight = 24
	defaultVisible        = 3
	maxVisible            = 10
	defaultPromiseDelay   = 2 * time.Second
)

// Options configures the showcase.
type Options struct {
	// Visible caps the cards drawn per anchor.
	Visible int
	// Position is the anchor new toasts start at.
	Position domain.Position
	// PromiseDelay is how long the simulated operation takes.
	PromiseDelay time.Duration
	// FullHelp starts with every key binding listed.
	FullHelp bool
	// OnExit receives the preferences in effect when the program quits.
	OnExit func(State)
}

// State is the part of the model worth keeping between runs.
type State struct {
	Position domain.Position
	Visible  int
	FullHelp bool
}

// Model represents the showcase model for bubbletea.
type Model struct {
	ctx          context.Context
	queue        *toast.Queue
	errorHandler errors.ErrorHandler

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	position     domain.Position
	visible      int
	promiseDelay time.Duration
	seq          int

	width     int
	height    int
	lastEvent string
}

// NewModel creates the showcase model driving q.
func NewModel(ctx context.Context, q *toast.Queue, opts Options) *Model {
	if opts.Visible <= 0 {
		opts.Visible = defaultVisible
	}
	if opts.Visible > maxVisible {
		opts.Visible = maxVisible
	}
	if !opts.Position.IsValid() {
		opts.Position = domain.PositionBottomRight
	}
	if opts.PromiseDelay <= 0 {
		opts.PromiseDelay = defaultPromiseDelay
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		ctx:          ctx,
		queue:        q,
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      s,
		position:     opts.Position,
		visible:      opts.Visible,
		promiseDelay: opts.PromiseDelay,
		width:        defaultViewportWidth,
		height:       defaultViewportHeight,
	}
	m.help.ShowAll = opts.FullHelp
	m.errorHandler = errors.NewToastHandler(q, nil, toast.WithPosition(domain.PositionTopCenter))
	return m
}

// Init starts the spinner, which also drives the countdown redraws.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case QueueEventMsg:
		m.lastEvent = format.EventLine(msg.Event, false)
		return m, nil
	case NotifyMsg:
		m.notify(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Success):
		m.enqueue(domain.KindSuccess, "Changes saved")
	case key.Matches(msg, m.keys.Error):
		m.enqueue(domain.KindError, "Could not reach the server", toast.WithDescription("Retry in a few seconds"))
	case key.Matches(msg, m.keys.Warning):
		m.enqueue(domain.KindWarning, "Disk almost full")
	case key.Matches(msg, m.keys.Info):
		m.enqueue(domain.KindInfo, "New version available")
	case key.Matches(msg, m.keys.Plain):
		m.enqueue(domain.KindPlain, "Event has been created")
	case key.Matches(msg, m.keys.Loading):
		m.enqueue(domain.KindLoading, "Syncing...", toast.WithDescription("press d to stop"))
	case key.Matches(msg, m.keys.Custom):
		m.seq++
		if _, err := m.queue.Custom(customPayload{Seq: m.seq, At: time.Now()}, toast.WithPosition(m.position)); err != nil {
			m.errorHandler.Error(err.Error())
		}
	case key.Matches(msg, m.keys.WithAction):
		m.enqueue(domain.KindPlain, "Message archived",
			toast.WithDescription("Sunday at 9:00 AM"),
			toast.WithAction("Undo", func(t toast.Toast) { m.errorHandler.Info("Restored " + t.Message) }),
			toast.WithCancel("Close", nil),
		)
	case key.Matches(msg, m.keys.Promise):
		m.startPromise()
	case key.Matches(msg, m.keys.Trigger):
		if t, ok := m.newest(func(t toast.Toast) bool { return t.Action != nil }); ok {
			m.queue.TriggerAction(t.ID)
		}
	case key.Matches(msg, m.keys.Cancel):
		if t, ok := m.newest(func(t toast.Toast) bool { return t.Cancel != nil }); ok {
			m.queue.TriggerCancel(t.ID)
		}
	case key.Matches(msg, m.keys.Dismiss):
		if t, ok := m.newest(func(t toast.Toast) bool { return t.Dismissible }); ok {
			m.queue.Dismiss(t.ID)
		}
	case key.Matches(msg, m.keys.DismissAll):
		m.queue.DismissAll()
	case key.Matches(msg, m.keys.Pause):
		if m.queue.Paused() {
			m.queue.Resume()
		} else {
			m.queue.Pause()
		}
	case key.Matches(msg, m.keys.NextPosition):
		m.position = nextPosition(m.position)
	case key.Matches(msg, m.keys.More):
		if m.visible < maxVisible {
			m.visible++
		}
	case key.Matches(msg, m.keys.Fewer):
		if m.visible > 1 {
			m.visible--
		}
	}
	return m, nil
}

// State returns the current preferences.
func (m *Model) State() State {
	return State{Position: m.position, Visible: m.visible, FullHelp: m.help.ShowAll}
}

type customPayload struct {
	Seq int
	At  time.Time
}

func (p customPayload) String() string {
	return fmt.Sprintf("custom #%d at %s", p.Seq, p.At.Format("15:04:05"))
}

func (m *Model) enqueue(kind domain.Kind, message string, opts ...toast.ToastOption) {
	m.seq++
	opts = append(opts, toast.WithPosition(m.position))
	if _, err := m.queue.Notify(kind, fmt.Sprintf("%s (%d)", message, m.seq), opts...); err != nil {
		m.errorHandler.Error(err.Error())
	}
}

func (m *Model) notify(msg NotifyMsg) {
	kind, err := domain.ParseKind(msg.Kind)
	if err != nil {
		m.errorHandler.Error(err.Error())
		return
	}
	if _, err := m.queue.Notify(kind, msg.Message, toast.WithPosition(m.position)); err != nil {
		m.errorHandler.Error(err.Error())
	}
}

// startPromise binds a simulated upload to a loading toast. Every second
// upload fails.
func (m *Model) startPromise() {
	m.seq++
	n := m.seq
	delay := m.promiseDelay
	upload := func(ctx context.Context) (string, error) {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if n%2 == 0 {
			return "", fmt.Errorf("upload %d rejected", n)
		}
		return fmt.Sprintf("report-%d.pdf uploaded", n), nil
	}
	msgs := toast.PromiseMessages[string]{
		Loading:   fmt.Sprintf("Uploading report-%d.pdf...", n),
		ErrorFunc: func(err error) string { return "Upload failed: " + err.Error() },
	}
	if _, _, err := toast.Go(m.ctx, m.queue, upload, msgs, toast.WithPosition(m.position)); err != nil {
		m.errorHandler.Error(err.Error())
	}
}

// newest returns the most recently enqueued toast matching keep.
func (m *Model) newest(keep func(toast.Toast) bool) (toast.Toast, bool) {
	active := m.queue.Active()
	for i := len(active) - 1; i >= 0; i-- {
		if keep(active[i]) {
			return active[i], true
		}
	}
	return toast.Toast{}, false
}

func nextPosition(p domain.Position) domain.Position {
	for i, candidate := range domain.Positions {
		if candidate == p {
			return domain.Positions[(i+1)%len(domain.Positions)]
		}
	}
	return domain.Positions[0]
}

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder

	status := fmt.Sprintf("new toasts at %s  active %d", m.position, m.queue.Len())
	if m.queue.Paused() {
		status += "  paused"
	}
	b.WriteString(titleStyle.Render("toastq") + "  " + mutedStyle.Render(status))
	b.WriteString("\n")

	cardWidth := cardWidthFor(m.width)
	stacks := make(map[domain.Position][]string, len(domain.Positions))
	for _, p := range domain.Positions {
		for _, t := range m.queue.Visible(p, m.visible) {
			remaining, timed := m.queue.Remaining(t.ID)
			stacks[p] = append(stacks[p], renderCard(t, cardState{
				Spinner:   m.spinner.View(),
				Remaining: remaining,
				Timed:     timed,
				Paused:    m.queue.Paused(),
				Width:     cardWidth,
			}))
		}
	}
	boardHeight := m.height - headerFooterLines - lipgloss.Height(m.help.View(m.keys)) + 1
	b.WriteString(renderBoard(stacks, m.width, boardHeight))
	b.WriteString("\n")

	b.WriteString(mutedStyle.Render(m.lastEvent))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
