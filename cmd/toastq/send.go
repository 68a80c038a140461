package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/app"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/dedup"
	"github.com/spf13/cobra"
)

type sendClient interface {
	OpenSender(ctx context.Context, addr string) (app.SendClient, func() error, error)
}

// NewSendCmd creates the send command with explicit dependencies.
func NewSendCmd(client sendClient) *cobra.Command {
	if client == nil {
		panic("NewSendCmd: client dependency cannot be nil")
	}

	var (
		kind           string
		description    string
		duration       string
		position       string
		id             string
		wait           bool
		action         string
		cancel         string
		notDismissible bool
		serverAddr     string
		dedupe         bool
	)

	sendCmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Show a toast",
		Long: `Show a toast and print its lifecycle events.

Without --server the toast lives in a queue owned by this process; with
--wait the command blocks until the toast is dismissed (timer expiry,
interrupt, or a dismissal through the server). With --server the toast is
sent to a running 'toastq serve'.

DURATION accepts milliseconds (4000), Go durations (1m30s) or "infinite".`,
		Example: `  toastq send "Build finished"
  toastq send -k error -d "3 tests failed" --wait "CI"
  toastq send --server 127.0.0.1:7777 --duration infinite --id deploy "Deploying"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.ParseDuration(duration)
			if err != nil {
				return err
			}

			sender, closeSender, err := client.OpenSender(commandContext(cmd), serverAddr)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeSender(); err != nil {
					colors.Debug("send: close:", err.Error())
				}
			}()

			result, err := app.NewSendUseCase(sender).Execute(app.SendInput{
				Context:       commandContext(cmd),
				Args:          args,
				Kind:          kind,
				Description:   description,
				Position:      position,
				ID:            id,
				Duration:      d,
				Dismissible:   !notDismissible,
				Action:        action,
				Cancel:        cancel,
				Wait:          wait,
				Output:        cmd.ErrOrStderr(),
				Color:         colorOutput(cmd.ErrOrStderr()),
				Dedupe:        dedupe,
				DedupCriteria: dedup.OptionsFromConfig().Criteria,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.ID)
			return nil
		},
	}

	sendCmd.Flags().StringVarP(&kind, "kind", "k", "", "Toast kind: plain, success, error, warning, info, loading, custom")
	sendCmd.Flags().StringVarP(&description, "description", "d", "", "Secondary text")
	sendCmd.Flags().StringVar(&duration, "duration", "", "Time to live (default: default_duration_ms config value)")
	sendCmd.Flags().StringVarP(&position, "position", "p", "", "Anchor (default: default_position config value)")
	sendCmd.Flags().StringVar(&id, "id", "", "Toast ID; an active toast with the same ID is replaced")
	sendCmd.Flags().BoolVar(&wait, "wait", false, "Block until the toast is dismissed")
	sendCmd.Flags().StringVar(&action, "action", "", "Label of the action button")
	sendCmd.Flags().StringVar(&cancel, "cancel", "", "Label of the cancel button")
	sendCmd.Flags().BoolVar(&notDismissible, "not-dismissible", false, "Hide the close button")
	sendCmd.Flags().BoolVar(&dedupe, "dedupe", false, "Derive the ID from the content so repeats replace the live toast (see dedup_criteria)")
	sendCmd.Flags().StringVar(&serverAddr, "server", "", "Send to the toastq server at this address")

	return sendCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewSendCmd(deps))
}
