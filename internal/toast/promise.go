package toast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// ErrFutureCanceled settles a future rejected without an error.
var ErrFutureCanceled = errors.New("future canceled")

// DefaultSuccessMessage is shown when a resolved operation has no success
// message and its value does not describe itself.
const DefaultSuccessMessage = "Done"

// Future is the eventual result of an asynchronous operation. It settles
// exactly once through Resolve or Reject.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewFuture returns an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)
	return f
}

// Resolve settles the future with v. It reports whether this call settled it.
func (f *Future[T]) Resolve(v T) bool {
	return f.settle(v, nil)
}

// Reject settles the future with err. A nil err is replaced by
// ErrFutureCanceled so a rejection is never mistaken for success.
func (f *Future[T]) Reject(err error) bool {
	if err == nil {
		err = ErrFutureCanceled
	}
	var zero T
	return f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the future has settled without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// PromiseMessages describes the toast shown for each state of a bound
// operation. The Func variants take precedence over the fixed strings.
type PromiseMessages[T any] struct {
	Loading     string
	Success     string
	Error       string
	SuccessFunc func(T) string
	ErrorFunc   func(error) string
	// Finally runs after the terminal update.
	Finally func()
}

func (m PromiseMessages[T]) successMessage(v T) string {
	if m.SuccessFunc != nil {
		return m.SuccessFunc(v)
	}
	if m.Success != "" {
		return m.Success
	}
	switch s := any(v).(type) {
	case string:
		if s != "" {
			return s
		}
	case fmt.Stringer:
		return s.String()
	}
	return DefaultSuccessMessage
}

func (m PromiseMessages[T]) errorMessage(err error) string {
	if m.ErrorFunc != nil {
		return m.ErrorFunc(err)
	}
	if m.Error != "" {
		return m.Error
	}
	return err.Error()
}

func (m PromiseMessages[T]) terminal(v T, err error) (domain.Kind, string) {
	if err != nil {
		return domain.KindError, m.errorMessage(err)
	}
	return domain.KindSuccess, m.successMessage(v)
}

// Promise enqueues a loading toast bound to f and returns its ID. When f
// settles the toast is updated exactly once to success or error. If f has
// already settled the toast is enqueued directly in its terminal state.
func Promise[T any](q *Queue, f *Future[T], msgs PromiseMessages[T], opts ...ToastOption) (string, error) {
	if f.IsComplete() {
		kind, message := msgs.terminal(f.value, f.err)
		id, err := q.Notify(kind, message, opts...)
		if err == nil && msgs.Finally != nil {
			msgs.Finally()
		}
		return id, err
	}

	id, token, err := q.enqueue(q.build(domain.KindLoading, msgs.Loading, opts))
	if err != nil {
		return "", err
	}
	go settleBound(q, id, token, f, msgs)
	return id, nil
}

// Bind attaches f to the already active toast id. It returns false when the
// toast is unknown. A settled future updates the toast before Bind returns.
func Bind[T any](q *Queue, id string, f *Future[T], msgs PromiseMessages[T]) bool {
	t, token, ok := q.lookup(id)
	if !ok {
		return false
	}
	if f.IsComplete() {
		settleBound(q, id, token, f, msgs)
		return true
	}
	if t.Kind != domain.KindLoading {
		q.update(id, token, Patch{Kind: domain.KindLoading})
	}
	go settleBound(q, id, token, f, msgs)
	return true
}

// settleBound applies the terminal update once f settles, but only to the
// entry the operation was bound to. A toast enqueued later under the same ID
// is left alone.
func settleBound[T any](q *Queue, id string, token uint64, f *Future[T], msgs PromiseMessages[T]) {
	<-f.done
	kind, message := msgs.terminal(f.value, f.err)
	if !q.update(id, token, Patch{Kind: kind, Message: String(message)}) {
		q.logger.Debug("bound toast gone before settling", "id", id)
	}
	if f.err != nil {
		q.logger.Debug("bound operation rejected", "id", id, "error", f.err)
	}
	if msgs.Finally != nil {
		msgs.Finally()
	}
}

// Go runs fn on its own goroutine and binds it to a loading toast. The
// returned future settles with fn's result.
func Go[T any](ctx context.Context, q *Queue, fn func(context.Context) (T, error), msgs PromiseMessages[T], opts ...ToastOption) (string, *Future[T], error) {
	f := NewFuture[T]()
	id, err := Promise(q, f, msgs, opts...)
	if err != nil {
		return "", nil, err
	}
	go func() {
		if err := ctx.Err(); err != nil {
			f.Reject(err)
			return
		}
		v, err := fn(ctx)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return id, f, nil
}
