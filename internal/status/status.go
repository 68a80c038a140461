// Package status summarizes the active toasts of a queue into one line for
// shell prompts and terminal status bars.
package status

import (
	"context"
	"strings"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/formatter"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// DefaultFormat is the preset used when no format is given.
const DefaultFormat = "compact"

// Source lists the active toasts in arrival order. *server.Client
// satisfies it.
type Source interface {
	Active(ctx context.Context) ([]toast.Toast, error)
}

// Options holds parameters for the status line.
type Options struct {
	// Format is a preset name or a template containing {{variables}}.
	Format string
	// ShowIdle renders the line even when no toast is active.
	ShowIdle bool
}

// Summarize builds the template variables for toasts.
func Summarize(toasts []toast.Toast) formatter.VariableContext {
	ctx := formatter.VariableContext{
		ActiveCount: len(toasts),
		KindCounts:  make(map[domain.Kind]int),
	}
	occupied := make(map[domain.Position]bool)
	for _, t := range toasts {
		ctx.KindCounts[t.Kind]++
		occupied[t.Position] = true
		if ctx.HighestSeverity == "" || t.Kind.Severity() < ctx.HighestSeverity.Severity() {
			ctx.HighestSeverity = t.Kind
		}
	}
	if n := len(toasts); n > 0 {
		ctx.LatestMessage = toasts[n-1].Message
		ctx.LatestKind = toasts[n-1].Kind
	}

	var positions []string
	for _, p := range domain.Positions {
		if occupied[p] {
			positions = append(positions, string(p))
		}
	}
	ctx.PositionList = strings.Join(positions, ",")
	return ctx
}

// Render formats toasts. An idle queue renders as an empty string unless
// ShowIdle is set.
func Render(toasts []toast.Toast, opts Options, presets formatter.PresetRegistry) (string, error) {
	template, err := resolveTemplate(opts.Format, presets)
	if err != nil {
		return "", err
	}
	engine := formatter.NewTemplateEngine()
	if err := engine.Validate(template); err != nil {
		return "", err
	}
	if len(toasts) == 0 && !opts.ShowIdle {
		return "", nil
	}
	return engine.Substitute(template, Summarize(toasts))
}

// Run fetches the active toasts from src and renders them.
func Run(ctx context.Context, src Source, opts Options) (string, error) {
	toasts, err := src.Active(ctx)
	if err != nil {
		return "", err
	}
	return Render(toasts, opts, formatter.NewPresetRegistry())
}

func resolveTemplate(format string, presets formatter.PresetRegistry) (string, error) {
	if format == "" {
		format = DefaultFormat
	}
	if formatter.IsTemplate(format) {
		return format, nil
	}
	preset, err := presets.Get(format)
	if err != nil {
		return "", err
	}
	return preset.Template, nil
}
