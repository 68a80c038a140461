package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	mu     sync.Mutex
	events []toast.Event
}

func (l *eventLog) observe(ev toast.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) snapshot() []toast.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]toast.Event(nil), l.events...)
}

func TestClientRoundTrip(t *testing.T) {
	f := newFixture(t)
	c, err := NewClient(f.http.URL, nil)
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()
	require.Eventually(t, func() bool { return f.srv.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	var log eventLog
	unsubscribe := c.Subscribe(log.observe)
	defer unsubscribe()

	id, err := c.Enqueue(toast.Toast{
		ID:       "remote",
		Kind:     domain.KindInfo,
		Message:  "from afar",
		Duration: toast.Infinite,
		Action:   &toast.Button{Label: "Open"},
		Payload:  map[string]int{"n": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "remote", id)

	got, ok := f.queue.Get("remote")
	require.True(t, ok)
	assert.True(t, got.IsInfinite())
	assert.Equal(t, "Open", got.Action.Label)

	assert.True(t, c.Dismiss("remote"))
	require.Eventually(t, func() bool { return len(log.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)

	events := log.snapshot()
	assert.Equal(t, toast.EventEnqueued, events[0].Type)
	assert.True(t, events[0].Toast.IsInfinite())
	assert.Equal(t, toast.EventDismissed, events[1].Type)
	assert.Equal(t, domain.ReasonManual, events[1].Reason)
}

func TestClientEnqueueReportsServerError(t *testing.T) {
	f := newFixture(t)
	c, err := NewClient(f.http.URL, nil)
	require.NoError(t, err)

	_, err = c.Enqueue(toast.Toast{Kind: "sparkly", Message: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "invalid toast kind")
}

func TestClientCloseEndsStream(t *testing.T) {
	f := newFixture(t)
	c, err := NewClient(f.http.URL, nil)
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background()))

	require.NoError(t, c.Close())
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("event stream did not end")
	}
	assert.NoError(t, c.Close())
}

func TestNewClientAcceptsHostPort(t *testing.T) {
	c, err := NewClient("127.0.0.1:7777", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:7777/toasts", c.endpoint("/toasts"))
}
