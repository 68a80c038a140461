package main

import (
	"io"

	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/app"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/spf13/cobra"
)

type runClient interface {
	OpenRuntime(hookOutput io.Writer) (*runtime, error)
}

// NewRunCmd creates the run command with explicit dependencies.
func NewRunCmd(client runClient) *cobra.Command {
	if client == nil {
		panic("NewRunCmd: client dependency cannot be nil")
	}

	var (
		loading  string
		success  string
		failure  string
		position string
		linger   bool
	)

	runCmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command behind a loading toast",
		Long: `Run a command behind a loading toast.

The toast shows LOADING while the command runs and turns into a success or
error toast once it exits. Lifecycle events are printed to stderr and the
command's exit status is propagated.`,
		Example: `  toastq run -- make test
  toastq run --loading "Deploying" --success "Deployed" --linger -- ./deploy.sh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := client.OpenRuntime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					colors.Debug("run: close:", err.Error())
				}
			}()

			result, err := app.NewRunUseCase(rt.queue).Execute(app.RunInput{
				Context:  commandContext(cmd),
				Command:  args,
				Loading:  loading,
				Success:  success,
				Error:    failure,
				Position: position,
				Linger:   linger,
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
				Events:   cmd.ErrOrStderr(),
				Color:    colorOutput(cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			if result.ExitCode != 0 {
				return &exitError{code: result.ExitCode}
			}
			return nil
		},
	}

	runCmd.Flags().StringVar(&loading, "loading", "", "Message while the command runs")
	runCmd.Flags().StringVar(&success, "success", "", "Message when the command succeeds")
	runCmd.Flags().StringVar(&failure, "error", "", "Message when the command fails")
	runCmd.Flags().StringVarP(&position, "position", "p", "", "Anchor (default: default_position config value)")
	runCmd.Flags().BoolVar(&linger, "linger", false, "Keep running until the result toast closes")

	return runCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewRunCmd(deps))
}
