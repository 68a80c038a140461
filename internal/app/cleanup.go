package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/toastq/internal/hooks"
)

// CleanupClient defines dependencies required by cleanup command.
// *domain.HistoryService satisfies it.
type CleanupClient interface {
	CleanupOlderThan(ctx context.Context, days int, dryRun bool) (int, error)
}

// HookRunner runs hook scripts for a point. *hooks.Runner satisfies it.
type HookRunner interface {
	Run(ctx context.Context, point string, env map[string]string) error
}

// CleanupUseCase coordinates cleanup behavior.
type CleanupUseCase struct {
	client CleanupClient
	hooks  HookRunner
	now    func() time.Time
}

// NewCleanupUseCase creates a cleanup use-case. hooks may be nil.
func NewCleanupUseCase(client CleanupClient, hooks HookRunner) *CleanupUseCase {
	if client == nil {
		panic("NewCleanupUseCase: client dependency cannot be nil")
	}

	return &CleanupUseCase{client: client, hooks: hooks, now: time.Now}
}

// CleanupInput holds parsed cleanup options.
type CleanupInput struct {
	Context      context.Context
	Days         int
	DryRun       bool
	Output       io.Writer
	LoadConfig   func()
	GetConfigInt func(key string, defaultValue int) int
}

// Execute removes history older than the retention window. pre-cleanup
// hooks run first and can abort; post-cleanup hooks receive the count.
func (u *CleanupUseCase) Execute(input CleanupInput) (int, error) {
	if input.LoadConfig != nil {
		input.LoadConfig()
	}
	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}

	days := input.Days
	if days == 0 && input.GetConfigInt != nil {
		days = input.GetConfigInt("history_retention_days", 30)
	}

	if days <= 0 {
		return 0, fmt.Errorf("days must be a positive integer")
	}

	cutoff := u.now().UTC().AddDate(0, 0, -days)
	if input.Output != nil {
		_, _ = fmt.Fprintf(input.Output, "Starting cleanup of toasts dismissed more than %d days ago\n", days)
	}

	if err := u.runHook(ctx, hooks.PreCleanup, hooks.CleanupEnv(days, cutoff, input.DryRun, -1)); err != nil {
		return 0, fmt.Errorf("cleanup aborted by hook: %w", err)
	}

	deleted, err := u.client.CleanupOlderThan(ctx, days, input.DryRun)
	if err != nil {
		return 0, fmt.Errorf("cleanup failed: %w", err)
	}

	if err := u.runHook(ctx, hooks.PostCleanup, hooks.CleanupEnv(days, cutoff, input.DryRun, deleted)); err != nil {
		return deleted, fmt.Errorf("post-cleanup hook: %w", err)
	}

	if input.Output != nil {
		if input.DryRun {
			_, _ = fmt.Fprintf(input.Output, "Dry run: %d records would be removed\n", deleted)
		} else {
			_, _ = fmt.Fprintf(input.Output, "Cleanup completed: %d records removed\n", deleted)
		}
	}

	return deleted, nil
}

func (u *CleanupUseCase) runHook(ctx context.Context, point string, env map[string]string) error {
	if u.hooks == nil {
		return nil
	}
	return u.hooks.Run(ctx, point, env)
}
