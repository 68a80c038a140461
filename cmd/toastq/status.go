package main

import (
	"fmt"

	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/formatter"
	"github.com/cristianoliveira/toastq/internal/status"
	"github.com/spf13/cobra"
)

type statusClient interface {
	OpenStatusSource(addr string) (status.Source, error)
}

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	var (
		formatFlag string
		serverAddr string
		showIdle   bool
		listFlag   bool
	)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "One-line summary of the toasts on a running server",
		Long: `One-line summary of the toasts on a running server.

Prints nothing while the queue is idle, so it can be embedded in a shell
prompt or a terminal status bar. FORMAT is a preset name or a template with
{{variable}} placeholders; run with --list-presets to see both.`,
		Example: `  toastq status
  toastq status --format detailed
  toastq status --format '{{error-count}} errors, {{loading-count}} running'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listFlag {
				printPresets(cmd)
				return nil
			}
			if formatFlag == "" {
				formatFlag = config.Get("status_format", status.DefaultFormat)
			}
			if serverAddr == "" {
				serverAddr = config.Get("server_addr", "127.0.0.1:7777")
			}

			src, err := client.OpenStatusSource(serverAddr)
			if err != nil {
				return err
			}
			line, err := status.Run(commandContext(cmd), src, status.Options{Format: formatFlag, ShowIdle: showIdle})
			if err != nil {
				return err
			}
			if line != "" {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	statusCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Preset name or template (default: status_format config value)")
	statusCmd.Flags().StringVar(&serverAddr, "server", "", "Server address (default: server_addr config value)")
	statusCmd.Flags().BoolVar(&showIdle, "show-idle", false, "Print the line even when no toast is active")
	statusCmd.Flags().BoolVar(&listFlag, "list-presets", false, "List presets and template variables")

	return statusCmd
}

func printPresets(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "PRESETS:")
	for _, p := range formatter.NewPresetRegistry().List() {
		fmt.Fprintf(w, "    %-12s %s\n", p.Name, p.Template)
	}
	fmt.Fprintln(w, "\nVARIABLES:")
	for _, v := range formatter.Variables {
		fmt.Fprintf(w, "    {{%s}}\n", v)
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewStatusCmd(deps))
}
