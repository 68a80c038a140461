package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/colors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	colors.StructuredInfo("main", "started", nil, nil)
	err := cmd.Execute(ctx)
	if err == nil {
		colors.StructuredInfo("main", "completed", nil, nil)
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	colors.StructuredError("main", "failed", err, nil)
	colors.Error(err.Error())
	return 1
}

// exitError carries a child process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
