package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/toastq/internal/clock"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (*Model, *toast.Queue, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	q := toast.New(toast.WithClock(clk))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := NewModel(ctx, q, Options{Visible: 2, PromiseDelay: time.Millisecond})
	return m, q, clk
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(context.Background(), toast.New(), Options{})

	assert.Equal(t, domain.PositionBottomRight, m.position)
	assert.Equal(t, defaultVisible, m.visible)
	assert.Equal(t, defaultPromiseDelay, m.promiseDelay)
	assert.NotNil(t, m.Init())
}

func TestKindKeysEnqueueAtCurrentPosition(t *testing.T) {
	tests := []struct {
		key  string
		kind domain.Kind
	}{
		{"s", domain.KindSuccess},
		{"e", domain.KindError},
		{"w", domain.KindWarning},
		{"i", domain.KindInfo},
		{"n", domain.KindPlain},
		{"l", domain.KindLoading},
		{"c", domain.KindCustom},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, q, _ := newTestModel(t)
			m.Update(runes(tt.key))

			active := q.Active()
			require.Len(t, active, 1)
			assert.Equal(t, tt.kind, active[0].Kind)
			assert.Equal(t, domain.PositionBottomRight, active[0].Position)
		})
	}
}

func TestTabCyclesPosition(t *testing.T) {
	m, q, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.PositionTopLeft, m.position)

	m.Update(runes("s"))
	require.Len(t, q.Stack(domain.PositionTopLeft), 1)

	for range domain.Positions[1:] {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, domain.PositionBottomRight, m.position)
}

func TestDismissKeys(t *testing.T) {
	m, q, _ := newTestModel(t)
	m.Update(runes("s"))
	m.Update(runes("e"))
	m.Update(runes("w"))

	m.Update(runes("d"))
	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, domain.KindError, active[1].Kind, "newest toast is dismissed first")

	m.Update(runes("D"))
	assert.Zero(t, q.Len())
}

func TestSpaceTogglesPause(t *testing.T) {
	m, q, clk := newTestModel(t)
	m.Update(runes("s"))

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, q.Paused())
	clk.Advance(time.Minute)
	assert.Equal(t, 1, q.Len())
	assert.Contains(t, m.View(), "paused")

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, q.Paused())
	clk.Advance(toast.DefaultDuration)
	assert.Zero(t, q.Len())
}

func TestActionAndCancelKeys(t *testing.T) {
	m, q, _ := newTestModel(t)

	m.Update(runes("a"))
	require.Equal(t, 1, q.Len())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// The undo action reports itself through a new info toast.
	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, domain.KindInfo, active[0].Kind)
	assert.True(t, strings.HasPrefix(active[0].Message, "Restored Message archived"))

	m.Update(runes("a"))
	require.Equal(t, 2, q.Len())
	m.Update(runes("x"))
	assert.Equal(t, 1, q.Len())
}

func TestPromiseKeySettles(t *testing.T) {
	m, q, _ := newTestModel(t)

	m.Update(runes("p"))
	active := q.Active()
	require.Len(t, active, 1)
	id := active[0].ID
	assert.Equal(t, domain.KindLoading, active[0].Kind)

	require.Eventually(t, func() bool {
		got, ok := q.Get(id)
		return ok && got.Kind == domain.KindSuccess
	}, time.Second, 5*time.Millisecond)

	m.Update(runes("p"))
	second := q.Active()[1].ID
	require.Eventually(t, func() bool {
		got, ok := q.Get(second)
		return ok && got.Kind == domain.KindError && strings.HasPrefix(got.Message, "Upload failed")
	}, time.Second, 5*time.Millisecond)
}

func TestNotifyMsg(t *testing.T) {
	m, q, _ := newTestModel(t)

	m.Update(NotifyCmd("warning", "from a command")())
	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, domain.KindWarning, active[0].Kind)

	m.Update(NotifyMsg{Kind: "bogus", Message: "x"})
	active = q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, domain.KindError, active[1].Kind)
	assert.Equal(t, domain.PositionTopCenter, active[1].Position)
}

func TestQueueEventUpdatesStatusLine(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(QueueEventMsg{Event: toast.Event{
		Type:   toast.EventDismissed,
		Toast:  toast.Toast{ID: "7", Kind: domain.KindInfo, Message: "bye"},
		Reason: domain.ReasonAuto,
	}})
	assert.Contains(t, m.lastEvent, `dismissed 7 info "bye" (auto)`)
	assert.Contains(t, m.View(), "(auto)")
}

func TestViewCapsVisibleCards(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	for i := 0; i < 4; i++ {
		m.Update(runes("i"))
	}

	view := m.View()
	assert.Contains(t, view, "New version available (4)")
	assert.Contains(t, view, "New version available (3)")
	assert.NotContains(t, view, "New version available (2)")
	assert.Contains(t, view, "active 4")
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "dismiss all")
}

func TestVisibleKeysAdjustCap(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(runes("+"))
	assert.Equal(t, 3, m.visible)

	for range 5 {
		m.Update(runes("-"))
	}
	assert.Equal(t, 1, m.visible)

	for range maxVisible + 2 {
		m.Update(runes("+"))
	}
	assert.Equal(t, maxVisible, m.visible)
}

func TestStateReflectsPreferences(t *testing.T) {
	m := NewModel(context.Background(), toast.New(), Options{
		Visible:  4,
		Position: domain.PositionTopLeft,
		FullHelp: true,
	})
	assert.Equal(t, State{Position: domain.PositionTopLeft, Visible: 4, FullHelp: true}, m.State())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("?"))
	st := m.State()
	assert.Equal(t, domain.PositionTopCenter, st.Position)
	assert.False(t, st.FullHelp)
}
