package main

import (
	"context"
	"io"
	"testing"

	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/settings"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/cristianoliveira/toastq/internal/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDemoClient struct {
	liveRunClient
	opts  tui.Options
	queue *toast.Queue
	exit  *tui.State
}

func (f *fakeDemoClient) RunShowcase(ctx context.Context, q *toast.Queue, opts tui.Options) error {
	f.opts = opts
	f.queue = q
	_, err := q.Info("showcase started")
	if f.exit != nil && opts.OnExit != nil {
		opts.OnExit(*f.exit)
	}
	return err
}

func TestNewDemoCmdPanicsWhenClientIsNil(t *testing.T) {
	assert.PanicsWithValue(t, "NewDemoCmd: client dependency cannot be nil", func() {
		NewDemoCmd(nil)
	})
}

func TestDemoCmdUsesConfig(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("TOASTQ_VISIBLE_TOASTS", "5")
	t.Setenv("TOASTQ_DEFAULT_POSITION", "top-center")
	config.Load()

	client := &fakeDemoClient{}
	cmd := NewDemoCmd(client)

	require.NoError(t, cmd.RunE(cmd, nil))

	assert.Equal(t, 5, client.opts.Visible)
	assert.Equal(t, domain.PositionTopCenter, client.opts.Position)
	assert.Equal(t, io.Discard, client.hookOutput)
	// the runtime dismisses what is left on close
	assert.Equal(t, 0, client.queue.Len())
}

func TestDemoCmdVisibleFlag(t *testing.T) {
	setupTestConfig(t)
	client := &fakeDemoClient{}
	cmd := NewDemoCmd(client)
	require.NoError(t, cmd.ParseFlags([]string{"--visible", "2"}))

	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Equal(t, 2, client.opts.Visible)
}

func TestDemoCmdPersistsPreferences(t *testing.T) {
	setupTestConfig(t)
	first := &fakeDemoClient{exit: &tui.State{
		Position: domain.PositionTopLeft,
		Visible:  6,
		FullHelp: true,
	}}
	cmd := NewDemoCmd(first)
	require.NoError(t, cmd.RunE(cmd, nil))
	require.FileExists(t, settings.Path())

	second := &fakeDemoClient{}
	cmd = NewDemoCmd(second)
	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Equal(t, domain.PositionTopLeft, second.opts.Position)
	assert.Equal(t, 6, second.opts.Visible)
	assert.True(t, second.opts.FullHelp)

	third := &fakeDemoClient{}
	cmd = NewDemoCmd(third)
	require.NoError(t, cmd.ParseFlags([]string{"--reset"}))
	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Equal(t, domain.PositionBottomRight, third.opts.Position)
	assert.Equal(t, 3, third.opts.Visible)
	assert.False(t, third.opts.FullHelp)
}
