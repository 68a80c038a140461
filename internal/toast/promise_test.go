package toast

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForKind(t *testing.T, q *Queue, id string, kind domain.Kind) Toast {
	t.Helper()
	var got Toast
	require.Eventually(t, func() bool {
		var ok bool
		got, ok = q.Get(id)
		return ok && got.Kind == kind
	}, time.Second, time.Millisecond)
	return got
}

func TestFutureSettlesOnce(t *testing.T) {
	f := NewFuture[int]()
	assert.False(t, f.IsComplete())

	assert.True(t, f.Resolve(1))
	assert.False(t, f.Resolve(2))
	assert.False(t, f.Reject(errors.New("late")))
	assert.True(t, f.IsComplete())

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFutureRejectNil(t *testing.T) {
	f := Rejected[string](nil)
	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, ErrFutureCanceled)
}

func TestFutureAwaitHonorsContext(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromiseResolvesToSuccess(t *testing.T) {
	q, _ := newTestQueue(t)
	events := record(q)
	f := NewFuture[string]()

	id, err := Promise(q, f, PromiseMessages[string]{Loading: "Saving...", Success: "Saved"})
	require.NoError(t, err)

	got, _ := q.Get(id)
	assert.Equal(t, domain.KindLoading, got.Kind)
	assert.Equal(t, "Saving...", got.Message)

	f.Resolve("ignored")
	got = waitForKind(t, q, id, domain.KindSuccess)
	assert.Equal(t, "Saved", got.Message)
	require.Eventually(t, func() bool { return events.count(EventUpdated) == 1 }, time.Second, time.Millisecond)
}

func TestPromiseRejectsToError(t *testing.T) {
	q, _ := newTestQueue(t)
	events := record(q)
	f := NewFuture[int]()

	id, err := Promise(q, f, PromiseMessages[int]{
		Loading:   "Loading",
		ErrorFunc: func(err error) string { return "failed: " + err.Error() },
	})
	require.NoError(t, err)

	f.Reject(errors.New("timeout"))
	got := waitForKind(t, q, id, domain.KindError)
	assert.Equal(t, "failed: timeout", got.Message)
	require.Eventually(t, func() bool { return events.count(EventUpdated) == 1 }, time.Second, time.Millisecond)
}

func TestPromiseTerminalToastGetsFreshTimer(t *testing.T) {
	q, fake := newTestQueue(t)
	f := NewFuture[string]()
	finally := make(chan struct{})

	id, err := Promise(q, f, PromiseMessages[string]{
		Loading: "Loading",
		Finally: func() { close(finally) },
	}, WithDuration(time.Second))
	require.NoError(t, err)

	fake.Advance(time.Hour)
	_, ok := q.Get(id)
	require.True(t, ok, "loading toast must not expire")

	f.Resolve("done")
	<-finally
	got, _ := q.Get(id)
	assert.Equal(t, "done", got.Message)

	fake.Advance(time.Second)
	_, ok = q.Get(id)
	assert.False(t, ok)
}

func TestPromiseAlreadySettledSkipsLoading(t *testing.T) {
	q, _ := newTestQueue(t)
	events := record(q)

	id, err := Promise(q, Resolved("ready"), PromiseMessages[string]{Loading: "Loading"})
	require.NoError(t, err)

	got, _ := q.Get(id)
	assert.Equal(t, domain.KindSuccess, got.Kind)
	assert.Equal(t, "ready", got.Message)

	rid, err := Promise(q, Rejected[string](errors.New("nope")), PromiseMessages[string]{Loading: "Loading"})
	require.NoError(t, err)
	got, _ = q.Get(rid)
	assert.Equal(t, domain.KindError, got.Kind)
	assert.Equal(t, "nope", got.Message)

	for _, ev := range events.all() {
		assert.NotEqual(t, domain.KindLoading, ev.Toast.Kind)
	}
}

func TestBindResolvesExistingLoadingToast(t *testing.T) {
	q, _ := newTestQueue(t)
	_, err := q.Enqueue(Toast{ID: "a", Kind: domain.KindLoading, Duration: Infinite})
	require.NoError(t, err)
	f := NewFuture[string]()

	require.True(t, Bind(q, "a", f, PromiseMessages[string]{}))
	f.Resolve("done")

	waitForKind(t, q, "a", domain.KindSuccess)
	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, domain.KindSuccess, active[0].Kind)
	assert.Equal(t, "done", active[0].Message)
}

func TestBindUnknownToast(t *testing.T) {
	q, _ := newTestQueue(t)
	assert.False(t, Bind(q, "missing", Resolved(1), PromiseMessages[int]{}))
}

func TestBindSettledFutureUpdatesSynchronously(t *testing.T) {
	q, _ := newTestQueue(t)
	id, err := q.Info("pending")
	require.NoError(t, err)

	require.True(t, Bind(q, id, Rejected[int](errors.New("boom")), PromiseMessages[int]{Error: "Could not save"}))

	got, _ := q.Get(id)
	assert.Equal(t, domain.KindError, got.Kind)
	assert.Equal(t, "Could not save", got.Message)
}

func TestPromiseDismissedBeforeSettling(t *testing.T) {
	q, _ := newTestQueue(t)
	f := NewFuture[string]()
	var finally atomic.Bool
	done := make(chan struct{})

	id, err := Promise(q, f, PromiseMessages[string]{
		Loading: "Loading",
		Finally: func() { finally.Store(true); close(done) },
	})
	require.NoError(t, err)
	q.Dismiss(id)

	f.Resolve("too late")
	<-done
	assert.True(t, finally.Load())
	assert.Equal(t, 0, q.Len())
}

func TestGoBindsFunction(t *testing.T) {
	q, _ := newTestQueue(t)
	release := make(chan struct{})

	id, f, err := Go(context.Background(), q, func(ctx context.Context) (int, error) {
		<-release
		return 42, nil
	}, PromiseMessages[int]{
		Loading:     "Counting",
		SuccessFunc: func(n int) string { return "counted" },
	})
	require.NoError(t, err)

	got, _ := q.Get(id)
	assert.Equal(t, domain.KindLoading, got.Kind)

	close(release)
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	waitForKind(t, q, id, domain.KindSuccess)
}

func TestGoCanceledContextRejects(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	id, f, err := Go(ctx, q, func(context.Context) (int, error) { return 1, nil }, PromiseMessages[int]{Loading: "never"})
	require.NoError(t, err)

	_, err = f.Await(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	got := waitForKind(t, q, id, domain.KindError)
	assert.Equal(t, context.Canceled.Error(), got.Message)
}

func TestPromiseInvalidOptions(t *testing.T) {
	q, _ := newTestQueue(t)
	_, err := Promise(q, NewFuture[int](), PromiseMessages[int]{}, WithPosition("nowhere"))
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestPromiseLeavesReusedIDAlone(t *testing.T) {
	q, _ := newTestQueue(t)
	f := NewFuture[string]()
	done := make(chan struct{})

	id, err := Promise(q, f, PromiseMessages[string]{
		Loading: "Saving...",
		Success: "saved",
		Finally: func() { close(done) },
	}, WithID("a"))
	require.NoError(t, err)
	require.True(t, q.Dismiss(id))

	_, err = q.Enqueue(Toast{ID: "a", Kind: domain.KindWarning, Message: "disk almost full", Duration: Infinite})
	require.NoError(t, err)

	f.Resolve("ignored")
	<-done

	got, ok := q.Get("a")
	require.True(t, ok)
	assert.Equal(t, domain.KindWarning, got.Kind)
	assert.Equal(t, "disk almost full", got.Message)
}

func TestPromiseFollowsReplacementOfSameID(t *testing.T) {
	q, _ := newTestQueue(t)
	f := NewFuture[string]()
	done := make(chan struct{})

	_, err := Promise(q, f, PromiseMessages[string]{
		Loading: "Saving...",
		Success: "saved",
		Finally: func() { close(done) },
	}, WithID("a"))
	require.NoError(t, err)

	// a replacement is the same toast, so the terminal update still applies
	_, err = q.Enqueue(Toast{ID: "a", Kind: domain.KindLoading, Message: "Still saving..."})
	require.NoError(t, err)

	f.Resolve("ignored")
	<-done

	got, _ := q.Get("a")
	assert.Equal(t, domain.KindSuccess, got.Kind)
	assert.Equal(t, "saved", got.Message)
}

func TestBindLeavesReusedIDAlone(t *testing.T) {
	q, _ := newTestQueue(t)
	_, err := q.Enqueue(Toast{ID: "job", Kind: domain.KindLoading, Message: "Working"})
	require.NoError(t, err)

	f := NewFuture[int]()
	done := make(chan struct{})
	require.True(t, Bind(q, "job", f, PromiseMessages[int]{Error: "failed", Finally: func() { close(done) }}))

	q.Dismiss("job")
	_, err = q.Info("next job", WithID("job"), WithDuration(Infinite))
	require.NoError(t, err)

	f.Reject(errors.New("boom"))
	<-done

	got, _ := q.Get("job")
	assert.Equal(t, domain.KindInfo, got.Kind)
	assert.Equal(t, "next job", got.Message)
}

func TestPromiseSuccessFallsBackToNeutralMessage(t *testing.T) {
	q, _ := newTestQueue(t)

	id, err := Promise(q, Resolved(7), PromiseMessages[int]{Loading: "Saving..."})
	require.NoError(t, err)

	got, _ := q.Get(id)
	assert.Equal(t, domain.KindSuccess, got.Kind)
	assert.Equal(t, DefaultSuccessMessage, got.Message)
}
