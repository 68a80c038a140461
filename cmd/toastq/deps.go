package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/toastq/internal/app"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/hooks"
	"github.com/cristianoliveira/toastq/internal/logging"
	"github.com/cristianoliveira/toastq/internal/server"
	"github.com/cristianoliveira/toastq/internal/status"
	"github.com/cristianoliveira/toastq/internal/version"
	"github.com/spf13/cobra"
)

// liveDeps opens the real queue, store and server connections. Every command
// resolves its resources through it after the root command loaded config.
type liveDeps struct{}

var deps liveDeps

// OpenSender returns the local runtime queue, or a client of the server
// listening on addr when addr is set.
func (liveDeps) OpenSender(ctx context.Context, addr string) (app.SendClient, func() error, error) {
	if addr == "" {
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return nil, nil, err
		}
		return rt.queue, rt.Close, nil
	}

	client, err := server.NewClient(addr, logging.GetGlobal())
	if err != nil {
		return nil, nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return client, client.Close, nil
}

// OpenStatusSource returns a client of the server listening on addr.
func (liveDeps) OpenStatusSource(addr string) (status.Source, error) {
	return server.NewClient(addr, logging.GetGlobal())
}

// OpenRuntime returns a queue with history, hooks and metrics attached.
func (liveDeps) OpenRuntime(hookOutput io.Writer) (*runtime, error) {
	return newRuntime(runtimeOptions{hookOutput: hookOutput})
}

// OpenHistory returns the history service over the configured store.
func (liveDeps) OpenHistory() (*domain.HistoryService, func() error, error) {
	return openHistory()
}

// Hooks returns a runner for the configured hooks directory.
func (liveDeps) Hooks() app.HookRunner {
	return hooks.NewRunner(hooks.OptionsFromConfig())
}

// Version returns the build version.
func (liveDeps) Version() string {
	return version.String()
}

// colorOutput reports whether ANSI colors should be written to w.
func colorOutput(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// commandContext returns the context of cmd, or Background when it was run
// without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
