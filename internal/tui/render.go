package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
)

const (
	maxCardWidth = 36
	minCardWidth = 16
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	buttonStyle      = lipgloss.NewStyle().Bold(true).Underline(true)
	cardStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
)

var kindIcons = map[domain.Kind]string{
	domain.KindSuccess: "✓",
	domain.KindError:   "✗",
	domain.KindWarning: "!",
	domain.KindInfo:    "i",
	domain.KindCustom:  "◆",
}

// cardState is what a card needs besides the toast itself.
type cardState struct {
	Spinner   string
	Remaining time.Duration
	Timed     bool
	Paused    bool
	Width     int
}

// renderCard draws a single toast.
func renderCard(t toast.Toast, s cardState) string {
	color := kindColor(t.Kind)
	icon := kindIcons[t.Kind]
	if t.Kind == domain.KindLoading {
		icon = s.Spinner
	}

	message := t.Message
	if t.Kind == domain.KindCustom && message == "" && t.Payload != nil {
		message = fmt.Sprintf("%v", t.Payload)
	}
	title := message
	if icon != "" {
		title = lipgloss.NewStyle().Foreground(color).Render(icon) + " " + message
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}
	if t.Description != "" {
		lines = append(lines, descriptionStyle.Render(t.Description))
	}

	var meta []string
	if t.Action != nil {
		meta = append(meta, buttonStyle.Render(t.Action.Label)+mutedStyle.Render(" ⏎"))
	}
	if t.Cancel != nil {
		meta = append(meta, buttonStyle.Render(t.Cancel.Label)+mutedStyle.Render(" x"))
	}
	switch {
	case s.Timed && s.Paused:
		meta = append(meta, mutedStyle.Render(fmt.Sprintf("⏸ %.1fs", s.Remaining.Seconds())))
	case s.Timed:
		meta = append(meta, mutedStyle.Render(fmt.Sprintf("%.1fs", s.Remaining.Seconds())))
	}
	if t.Dismissible {
		meta = append(meta, mutedStyle.Render("#"+t.ID))
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, "  "))
	}

	width := s.Width
	if width <= 0 {
		width = maxCardWidth
	}
	return cardStyle.
		BorderForeground(color).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// renderBoard lays the six stacks out on a width x height canvas. stacks
// holds each anchor's visible toasts newest first; newest cards sit closest
// to their screen edge.
func renderBoard(stacks map[domain.Position][]string, width, height int) string {
	colWidth := width / 3
	if colWidth < minCardWidth {
		colWidth = minCardWidth
	}

	row := func(positions []domain.Position, top bool) string {
		cols := make([]string, 0, len(positions))
		for i, p := range positions {
			cards := append([]string(nil), stacks[p]...)
			if !top {
				reverse(cards)
			}
			block := lipgloss.JoinVertical(alignFor(i), cards...)
			cols = append(cols, lipgloss.PlaceHorizontal(colWidth, alignFor(i), block))
		}
		vAlign := lipgloss.Top
		if !top {
			vAlign = lipgloss.Bottom
		}
		return lipgloss.JoinHorizontal(vAlign, cols...)
	}

	topRow := row(domain.Positions[:3], true)
	bottomRow := row(domain.Positions[3:], false)

	gap := height - lipgloss.Height(topRow) - lipgloss.Height(bottomRow)
	if gap < 1 {
		gap = 1
	}
	return topRow + strings.Repeat("\n", gap) + bottomRow
}

func cardWidthFor(width int) int {
	w := width/3 - 1
	if w > maxCardWidth {
		return maxCardWidth
	}
	if w < minCardWidth {
		return minCardWidth
	}
	return w
}

func alignFor(column int) lipgloss.Position {
	switch column {
	case 0:
		return lipgloss.Left
	case 1:
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func kindColor(kind domain.Kind) lipgloss.Color {
	if kind == domain.KindPlain {
		return lipgloss.Color("250")
	}
	return lipgloss.Color(ansiColorNumber(colors.ForKind(kind)))
}

// ansiColorNumber maps an SGR foreground sequence such as "\033[0;31m" to
// the matching 0-15 palette index lipgloss understands.
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	code, err := strconv.Atoi(ansi[lastSemicolon+1 : len(ansi)-1])
	if err != nil {
		return ""
	}
	switch {
	case code >= 30 && code <= 37:
		return strconv.Itoa(code - 30)
	case code >= 90 && code <= 97:
		return strconv.Itoa(code - 90 + 8)
	default:
		return ""
	}
}
