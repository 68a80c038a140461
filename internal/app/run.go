package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/format"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// RunInput holds parsed run options.
type RunInput struct {
	Context context.Context
	// Command is the program and its arguments.
	Command  []string
	Loading  string
	Success  string
	Error    string
	Position string
	// Linger keeps the process alive until the terminal toast auto-closes.
	Linger bool
	// Stdout and Stderr receive the command's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Events receives the toast lifecycle lines.
	Events io.Writer
	Color  bool
}

// RunResult describes a finished run.
type RunResult struct {
	ToastID  string
	Kind     domain.Kind
	Message  string
	ExitCode int
	Elapsed  time.Duration
}

// RunUseCase binds a shell command to a loading toast.
type RunUseCase struct {
	queue *toast.Queue
}

// NewRunUseCase creates a run use-case on q.
func NewRunUseCase(q *toast.Queue) *RunUseCase {
	if q == nil {
		panic("NewRunUseCase: queue dependency cannot be nil")
	}
	return &RunUseCase{queue: q}
}

// Execute runs the command and morphs the toast into success or error once
// it exits. The command's own failure is reported through the result, not
// the error; err is set only when the toast could not be shown.
func (u *RunUseCase) Execute(input RunInput) (RunResult, error) {
	if len(input.Command) == 0 || strings.TrimSpace(input.Command[0]) == "" {
		return RunResult{}, errors.New("run: no command given")
	}
	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []toast.ToastOption
	if input.Position != "" {
		pos, err := domain.ParsePosition(input.Position)
		if err != nil {
			return RunResult{}, err
		}
		opts = append(opts, toast.WithPosition(pos))
	}

	name := strings.Join(input.Command, " ")
	msgs := toast.PromiseMessages[time.Duration]{
		Loading: input.Loading,
		Success: input.Success,
		Error:   input.Error,
	}
	if msgs.Loading == "" {
		msgs.Loading = fmt.Sprintf("Running %s", name)
	}
	if msgs.Success == "" {
		msgs.SuccessFunc = func(elapsed time.Duration) string {
			return fmt.Sprintf("%s finished in %s", name, elapsed.Round(time.Millisecond))
		}
	}
	if msgs.Error == "" {
		msgs.ErrorFunc = func(err error) string {
			return fmt.Sprintf("%s failed: %v", name, err)
		}
	}

	settled := make(chan struct{})
	msgs.Finally = func() { close(settled) }

	dismissed := make(chan string, 16)
	unsubscribe := u.queue.Subscribe(func(ev toast.Event) {
		if ev.Type != toast.EventDismissed {
			return
		}
		select {
		case dismissed <- ev.Toast.ID:
		default:
		}
	})
	defer unsubscribe()
	if input.Events != nil {
		printer := format.NewEventPrinter(input.Events, input.Color)
		defer u.queue.Subscribe(printer.Observe)()
	}

	run := func(ctx context.Context) (time.Duration, error) {
		cmd := exec.CommandContext(ctx, input.Command[0], input.Command[1:]...)
		cmd.Stdout = input.Stdout
		cmd.Stderr = input.Stderr
		start := time.Now()
		err := cmd.Run()
		return time.Since(start), err
	}

	id, future, err := toast.Go(ctx, u.queue, run, msgs, opts...)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: %w", err)
	}

	// Await with a background context: the command itself observes ctx.
	elapsed, runErr := future.Await(context.Background())
	<-settled
	result := RunResult{ToastID: id, Elapsed: elapsed, ExitCode: exitCode(runErr)}
	if t, ok := u.queue.Get(id); ok {
		result.Kind = t.Kind
		result.Message = t.Message
	}

	if input.Linger {
		u.linger(ctx, id, dismissed)
	}
	return result, nil
}

// linger waits for the toast to close on its own.
func (u *RunUseCase) linger(ctx context.Context, id string, dismissed <-chan string) {
	if _, ok := u.queue.Get(id); !ok {
		return
	}
	for {
		select {
		case got := <-dismissed:
			if got == id {
				return
			}
		case <-ctx.Done():
			u.queue.Dismiss(id)
			return
		}
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
