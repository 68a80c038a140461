package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianoliveira/toastq/internal/clock"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/storage"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderStoresDismissedToasts(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC))
	q := toast.New(toast.WithClock(fake))
	store := storage.NewMemoryStore()
	rec := NewRecorder(store, nil)
	detach := rec.Attach(q)
	defer detach()
	ctx := context.Background()

	_, err := q.Success("saved", toast.WithID("a"), toast.WithDuration(2*time.Second))
	require.NoError(t, err)
	_, err = q.Error("failed", toast.WithID("b"), toast.WithDescription("disk full"))
	require.NoError(t, err)

	fake.Advance(2 * time.Second)
	q.Dismiss("b")

	records, err := store.List(ctx, domain.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	byToast := map[string]domain.HistoryRecord{}
	for _, r := range records {
		byToast[r.ToastID] = r
		_, err := uuid.Parse(r.ID)
		assert.NoError(t, err)
	}
	assert.Equal(t, domain.ReasonAuto, byToast["a"].Reason)
	recA := byToast["a"]
	assert.Equal(t, 2*time.Second, recA.Lifetime())
	assert.Equal(t, domain.ReasonManual, byToast["b"].Reason)
	assert.Equal(t, "disk full", byToast["b"].Description)
	assert.Equal(t, domain.KindError, byToast["b"].Kind)
}

func TestRecorderIgnoresOtherEvents(t *testing.T) {
	q := toast.New()
	store := storage.NewMemoryStore()
	NewRecorder(store, nil).Attach(q)

	id, err := q.Info("hello", toast.WithDuration(toast.Infinite))
	require.NoError(t, err)
	q.Update(id, toast.Patch{Message: toast.String("again")})

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

type failingRepo struct {
	domain.HistoryRepository
	calls int
}

func (f *failingRepo) Record(context.Context, domain.HistoryRecord) error {
	f.calls++
	return errors.New("disk full")
}

func TestRecorderSwallowsStoreErrors(t *testing.T) {
	q := toast.New()
	repo := &failingRepo{}
	NewRecorder(repo, nil).Attach(q)

	id, err := q.Info("x")
	require.NoError(t, err)

	assert.NotPanics(t, func() { q.Dismiss(id) })
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 0, q.Len())
}
