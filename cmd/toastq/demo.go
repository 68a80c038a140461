package main

import (
	"context"
	"io"

	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/settings"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/cristianoliveira/toastq/internal/tui"
	"github.com/spf13/cobra"
)

type demoClient interface {
	OpenRuntime(hookOutput io.Writer) (*runtime, error)
	RunShowcase(ctx context.Context, q *toast.Queue, opts tui.Options) error
}

// RunShowcase runs the interactive terminal showcase.
func (liveDeps) RunShowcase(ctx context.Context, q *toast.Queue, opts tui.Options) error {
	return tui.Run(ctx, q, opts)
}

// NewDemoCmd creates the demo command with explicit dependencies.
func NewDemoCmd(client demoClient) *cobra.Command {
	if client == nil {
		panic("NewDemoCmd: client dependency cannot be nil")
	}

	var (
		visible int
		reset   bool
	)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive toast showcase",
		Long: `Interactive toast showcase.

Press the keys shown at the bottom of the screen to raise each kind of toast,
run a simulated async operation, trigger actions and move the anchor. Press
? for every key binding and q to quit.

The anchor, the number of cards per anchor and the help mode are saved to
demo.toml in config_dir on exit and restored on the next run. Use --reset to
start from the configured defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// hook scripts writing to the terminal would tear the alternate screen
			rt, err := client.OpenRuntime(io.Discard)
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					colors.Debug("demo: close:", err.Error())
				}
			}()

			prefs := settings.DefaultSettings()
			if !reset {
				loaded, err := settings.Load()
				if err != nil {
					colors.Warning("demo: using default preferences:", err.Error())
				} else {
					prefs = loaded
				}
			}
			if visible > 0 {
				prefs.Visible = min(visible, settings.MaxVisible)
			}

			return client.RunShowcase(commandContext(cmd), rt.queue, tui.Options{
				Visible:  prefs.Visible,
				Position: prefs.PositionValue(),
				FullHelp: prefs.FullHelp,
				OnExit: func(st tui.State) {
					next := &settings.Settings{
						Position: string(st.Position),
						Visible:  st.Visible,
						FullHelp: st.FullHelp,
					}
					if err := settings.Save(next); err != nil {
						colors.Warning("demo: preferences not saved:", err.Error())
					}
				},
			})
		},
	}

	demoCmd.Flags().IntVar(&visible, "visible", 0, "Cards drawn per anchor (default: saved preference)")
	demoCmd.Flags().BoolVar(&reset, "reset", false, "Ignore saved preferences for this run")

	return demoCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewDemoCmd(deps))
}
