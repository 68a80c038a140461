package status

import (
	"context"
	"errors"
	"testing"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/formatter"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []toast.Toast{
	{ID: "1", Kind: domain.KindSuccess, Message: "Saved", Position: domain.PositionBottomRight},
	{ID: "2", Kind: domain.KindWarning, Message: "Low battery", Position: domain.PositionTopLeft},
	{ID: "3", Kind: domain.KindLoading, Message: "Syncing", Position: domain.PositionBottomRight},
}

type fakeSource struct {
	toasts []toast.Toast
	err    error
}

func (f fakeSource) Active(ctx context.Context) ([]toast.Toast, error) {
	return f.toasts, f.err
}

func TestSummarize(t *testing.T) {
	ctx := Summarize(sample)

	assert.Equal(t, 3, ctx.ActiveCount)
	assert.Equal(t, 1, ctx.KindCounts[domain.KindWarning])
	assert.Equal(t, 1, ctx.KindCounts[domain.KindLoading])
	assert.Equal(t, "Syncing", ctx.LatestMessage)
	assert.Equal(t, domain.KindLoading, ctx.LatestKind)
	assert.Equal(t, domain.KindWarning, ctx.HighestSeverity)
	assert.Equal(t, "top-left,bottom-right", ctx.PositionList)
}

func TestSummarizeEmpty(t *testing.T) {
	ctx := Summarize(nil)
	assert.Equal(t, 0, ctx.ActiveCount)
	assert.Empty(t, ctx.HighestSeverity)
	assert.Empty(t, ctx.PositionList)
}

func TestRender(t *testing.T) {
	presets := formatter.NewPresetRegistry()

	tests := []struct {
		name   string
		toasts []toast.Toast
		opts   Options
		want   string
	}{
		{name: "default compact", toasts: sample, want: "[3] Syncing"},
		{name: "count only", toasts: sample, opts: Options{Format: "count-only"}, want: "3"},
		{name: "severity", toasts: sample, opts: Options{Format: "severity"}, want: "Severity: warning | Active: 3"},
		{name: "custom template", toasts: sample, opts: Options{Format: "{{warning-count}}w {{loading-count}}l"}, want: "1w 1l"},
		{name: "idle hidden", toasts: nil, want: ""},
		{name: "idle shown", toasts: nil, opts: Options{Format: "count-only", ShowIdle: true}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.toasts, tt.opts, presets)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderRejectsBadFormatEvenWhenIdle(t *testing.T) {
	presets := formatter.NewPresetRegistry()

	_, err := Render(nil, Options{Format: "fancy"}, presets)
	assert.Error(t, err)

	_, err = Render(nil, Options{Format: "{{nope}}"}, presets)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	got, err := Run(context.Background(), fakeSource{toasts: sample}, Options{Format: "positions"})
	require.NoError(t, err)
	assert.Equal(t, "top-left,bottom-right (3)", got)

	_, err = Run(context.Background(), fakeSource{err: errors.New("connection refused")}, Options{})
	assert.EqualError(t, err, "connection refused")
}
