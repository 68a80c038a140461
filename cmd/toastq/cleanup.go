package main

import (
	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/app"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/spf13/cobra"
)

type cleanupClient interface {
	OpenHistory() (*domain.HistoryService, func() error, error)
	Hooks() app.HookRunner
}

// NewCleanupCmd creates the cleanup command with explicit dependencies.
func NewCleanupCmd(client cleanupClient) *cobra.Command {
	if client == nil {
		panic("NewCleanupCmd: client dependency cannot be nil")
	}

	var daysFlag int
	var dryRunFlag bool

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove old toasts from history",
		Long: `Remove old toasts from history.

Deletes history records of toasts dismissed more than --days ago. The
pre-cleanup hooks run first and can abort the cleanup; post-cleanup hooks
receive the number of removed records in DELETED_COUNT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := client.OpenHistory()
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					colors.Debug("cleanup: close:", err.Error())
				}
			}()

			_, err = app.NewCleanupUseCase(svc, client.Hooks()).Execute(app.CleanupInput{
				Context:      commandContext(cmd),
				Days:         daysFlag,
				DryRun:       dryRunFlag,
				Output:       cmd.OutOrStdout(),
				LoadConfig:   config.Load,
				GetConfigInt: config.GetInt,
			})
			return err
		},
	}

	// Default days 0 means "use config value"
	cleanupCmd.Flags().IntVar(&daysFlag, "days", 0, "Remove toasts dismissed more than N days ago (default: history_retention_days config value)")
	cleanupCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be removed without removing it")

	return cleanupCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewCleanupCmd(deps))
}
