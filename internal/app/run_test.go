package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuccess(t *testing.T) {
	q := toast.New()
	var stdout, events bytes.Buffer

	result, err := NewRunUseCase(q).Execute(RunInput{
		Command: []string{"sh", "-c", "echo hello"},
		Stdout:  &stdout,
		Events:  &events,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, domain.KindSuccess, result.Kind)
	assert.True(t, strings.HasPrefix(result.Message, "sh -c echo hello finished in"))
	assert.Equal(t, "hello\n", stdout.String())

	lines := strings.Split(strings.TrimSpace(events.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "enqueued")
	assert.Contains(t, lines[0], "loading")
	assert.Contains(t, lines[1], "updated")
}

func TestRunFailureUsesCustomMessage(t *testing.T) {
	q := toast.New()

	result, err := NewRunUseCase(q).Execute(RunInput{
		Command:  []string{"sh", "-c", "exit 3"},
		Loading:  "Deploying",
		Error:    "Deploy failed",
		Position: "top-left",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, domain.KindError, result.Kind)
	assert.Equal(t, "Deploy failed", result.Message)

	got, ok := q.Get(result.ToastID)
	require.True(t, ok)
	assert.Equal(t, domain.PositionTopLeft, got.Position)
}

func TestRunMissingBinary(t *testing.T) {
	q := toast.New()
	result, err := NewRunUseCase(q).Execute(RunInput{Command: []string{"toastq-no-such-binary"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, domain.KindError, result.Kind)
}

func TestRunLingersUntilAutoClose(t *testing.T) {
	q := toast.New(toast.WithDefaultDuration(20 * time.Millisecond))

	result, err := NewRunUseCase(q).Execute(RunInput{
		Command: []string{"true"},
		Success: "ok",
		Linger:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Message)
	assert.Zero(t, q.Len())
}

func TestRunLingerCanceled(t *testing.T) {
	q := toast.New(toast.WithDefaultDuration(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := NewRunUseCase(q).Execute(RunInput{Context: ctx, Command: []string{"true"}, Linger: true})
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		active := q.Active()
		return len(active) == 1 && active[0].Kind == domain.KindSuccess
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	assert.Zero(t, q.Len())
}

func TestRunValidation(t *testing.T) {
	q := toast.New()
	_, err := NewRunUseCase(q).Execute(RunInput{})
	assert.Error(t, err)

	_, err = NewRunUseCase(q).Execute(RunInput{Command: []string{"true"}, Position: "nowhere"})
	assert.Error(t, err)
	assert.Zero(t, q.Len())

	assert.Panics(t, func() { NewRunUseCase(nil) })
}
