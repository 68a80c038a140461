package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// QueueEventMsg carries a queue event into the program.
type QueueEventMsg struct {
	Event toast.Event
}

// NotifyMsg asks the model to enqueue a toast. Other components return it as
// a tea.Cmd to surface an outcome.
type NotifyMsg struct {
	Kind    string
	Message string
}

// NotifyCmd creates a tea.Cmd that produces a NotifyMsg.
func NotifyCmd(kind, message string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Kind: kind, Message: message}
	}
}
