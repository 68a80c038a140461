package errors

import (
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// Notifier enqueues toasts. *toast.Queue satisfies it.
type Notifier interface {
	Notify(kind domain.Kind, message string, opts ...toast.ToastOption) (string, error)
}

// ToastHandler reports messages as toasts, so interactive programs surface
// their own errors the same way they surface everything else.
type ToastHandler struct {
	queue Notifier
	opts  []toast.ToastOption
	// fallback receives messages the queue rejects.
	fallback ErrorHandler
}

var _ ErrorHandler = (*ToastHandler)(nil)

// NewToastHandler creates a handler enqueuing on q with opts applied to every
// toast. A nil fallback drops rejected messages.
func NewToastHandler(q Notifier, fallback ErrorHandler, opts ...toast.ToastOption) *ToastHandler {
	return &ToastHandler{queue: q, opts: opts, fallback: fallback}
}

func (h *ToastHandler) Error(msg string) {
	h.notify(domain.KindError, msg, func(f ErrorHandler) { f.Error(msg) })
}

func (h *ToastHandler) Warning(msg string) {
	h.notify(domain.KindWarning, msg, func(f ErrorHandler) { f.Warning(msg) })
}

func (h *ToastHandler) Info(msg string) {
	h.notify(domain.KindInfo, msg, func(f ErrorHandler) { f.Info(msg) })
}

func (h *ToastHandler) Success(msg string) {
	h.notify(domain.KindSuccess, msg, func(f ErrorHandler) { f.Success(msg) })
}

func (h *ToastHandler) notify(kind domain.Kind, msg string, fallback func(ErrorHandler)) {
	if _, err := h.queue.Notify(kind, msg, h.opts...); err != nil && h.fallback != nil {
		fallback(h.fallback)
	}
}
