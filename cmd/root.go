// Package cmd holds the root command of the toastq binary.
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/logging"
	"github.com/cristianoliveira/toastq/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "toastq",
	Short:         "Transient notifications for scripts, terminals and services.",
	Long:          `Transient notifications for scripts, terminals and services.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		Teardown()
	},
}

// Setup loads the configuration and starts the global logger.
func Setup() error {
	config.Load()
	if config.GetBool("debug", false) {
		colors.SetDebug(true)
	}
	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
	}
	return nil
}

// Teardown flushes the global logger.
func Teardown() {
	if err := logging.ShutdownGlobal(); err != nil {
		colors.Debug("logger shutdown:", err.Error())
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// outputWriter is the writer used by PrintHelp. Can be changed for testing.
var outputWriter io.Writer

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		PrintHelp(cmd)
	})
}

// PrintHelp prints the overview of every command of root.
func PrintHelp(root *cobra.Command) {
	w := outputWriter
	if w == nil {
		w = root.OutOrStdout()
	}
	printHelp(root, w)
}

func printHelp(root *cobra.Command, w io.Writer) {
	commandOrder := []string{
		"send",
		"run",
		"history",
		"status",
		"cleanup",
		"demo",
		"serve",
		"help",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-24s %s", found.Use, found.Short))
	}

	fmt.Fprintf(w, `toastq %s

%s

USAGE:
    toastq [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message

Run 'toastq COMMAND --help' for the options of a command.
`, root.Version, root.Short, strings.Join(cmdLines, "\n"))
}
