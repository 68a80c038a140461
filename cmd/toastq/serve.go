package main

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/server"
	"github.com/spf13/cobra"
)

type serveClient interface {
	OpenRuntime(hookOutput io.Writer) (*runtime, error)
}

// NewServeCmd creates the serve command with explicit dependencies.
func NewServeCmd(client serveClient) *cobra.Command {
	if client == nil {
		panic("NewServeCmd: client dependency cannot be nil")
	}

	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the queue over HTTP and WebSocket",
		Long: `Serve the queue over HTTP and WebSocket.

ENDPOINTS:
    GET    /toasts               Active toasts in arrival order
    POST   /toasts               Enqueue a toast
    GET    /toasts/{id}          One active toast
    PATCH  /toasts/{id}          Update a toast in place
    DELETE /toasts/{id}          Dismiss a toast
    DELETE /toasts               Dismiss every toast
    POST   /toasts/{id}/action   Trigger the action button
    POST   /toasts/{id}/cancel   Trigger the cancel button
    GET    /history              Dismissed toasts (kind, position, reason, since, limit, q, mode)
    GET    /ws                   Queue events as JSON messages
    GET    /metrics              Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = config.Get("server_addr", "127.0.0.1:7777")
			}

			rt, err := client.OpenRuntime(nil)
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					colors.Debug("serve: close:", err.Error())
				}
			}()

			srv := server.New(server.Options{
				Queue:       rt.queue,
				History:     rt.history,
				Gatherer:    rt.registry,
				Logger:      rt.logger,
				Dismissible: config.GetBool("dismissible", true),
			})
			defer srv.Close()

			ready := make(chan string, 1)
			printed := make(chan struct{})
			go func() {
				defer close(printed)
				if bound, ok := <-ready; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", bound)
				}
			}()
			err = srv.Run(commandContext(cmd), addr, ready)
			close(ready)
			<-printed
			return err
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server_addr config value)")

	return serveCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewServeCmd(deps))
}
