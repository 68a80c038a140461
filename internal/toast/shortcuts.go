package toast

import "github.com/cristianoliveira/toastq/internal/domain"

// Notify enqueues a toast of the given kind built from opts.
func (q *Queue) Notify(kind domain.Kind, message string, opts ...ToastOption) (string, error) {
	return q.Enqueue(q.build(kind, message, opts))
}

func (q *Queue) build(kind domain.Kind, message string, opts []ToastOption) Toast {
	q.mu.Lock()
	t := Toast{Kind: kind, Message: message, Dismissible: q.dismissible}
	q.mu.Unlock()
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Message enqueues a plain toast.
func (q *Queue) Message(message string, opts ...ToastOption) (string, error) {
	return q.Notify(domain.KindPlain, message, opts...)
}

func (q *Queue) Success(message string, opts ...ToastOption) (string, error) {
	return q.Notify(domain.KindSuccess, message, opts...)
}

func (q *Queue) Error(message string, opts ...ToastOption) (string, error) {
	return q.Notify(domain.KindError, message, opts...)
}

func (q *Queue) Warning(message string, opts ...ToastOption) (string, error) {
	return q.Notify(domain.KindWarning, message, opts...)
}

func (q *Queue) Info(message string, opts ...ToastOption) (string, error) {
	return q.Notify(domain.KindInfo, message, opts...)
}

// Loading enqueues a loading toast. It stays until updated or dismissed.
func (q *Queue) Loading(message string, opts ...ToastOption) (string, error) {
	return q.Notify(domain.KindLoading, message, opts...)
}

// Custom enqueues a custom toast carrying payload.
func (q *Queue) Custom(payload any, opts ...ToastOption) (string, error) {
	return q.Notify(domain.KindCustom, "", append([]ToastOption{WithPayload(payload)}, opts...)...)
}
