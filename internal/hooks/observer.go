package hooks

import (
	"context"
	"strconv"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/toast"
)

// ToastEnv returns the TOAST_* environment describing ev.
func ToastEnv(ev toast.Event) map[string]string {
	t := ev.Toast
	env := map[string]string{
		"TOAST_EVENT":       string(ev.Type),
		"TOAST_ID":          t.ID,
		"TOAST_KIND":        string(t.Kind),
		"TOAST_POSITION":    string(t.Position),
		"TOAST_MESSAGE":     t.Message,
		"TOAST_DESCRIPTION": t.Description,
		"TOAST_CREATED_AT":  t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.IsInfinite() {
		env["TOAST_DURATION_MS"] = "infinite"
	} else {
		env["TOAST_DURATION_MS"] = strconv.FormatInt(t.Duration.Milliseconds(), 10)
	}
	if ev.Reason != "" {
		env["TOAST_REASON"] = string(ev.Reason)
	}
	if ev.Replaced {
		env["TOAST_REPLACED"] = "true"
	}
	return env
}

// CleanupEnv returns the environment for cleanup hooks.
func CleanupEnv(days int, cutoff time.Time, dryRun bool, deleted int) map[string]string {
	env := map[string]string{
		"CLEANUP_DAYS":     strconv.Itoa(days),
		"CUTOFF_TIMESTAMP": cutoff.UTC().Format(time.RFC3339),
		"DRY_RUN":          strconv.FormatBool(dryRun),
	}
	if deleted >= 0 {
		env["DELETED_COUNT"] = strconv.Itoa(deleted)
	}
	return env
}

// Observe runs the hooks matching a queue event. Auto-dismissed toasts run
// auto-close before post-dismiss. Failures are logged since the transition
// already happened.
func (r *Runner) Observe(ev toast.Event) {
	var points []string
	switch ev.Type {
	case toast.EventEnqueued:
		points = []string{PostEnqueue}
	case toast.EventUpdated:
		points = []string{PostUpdate}
	case toast.EventDismissed:
		if ev.Reason == domain.ReasonAuto {
			points = append(points, AutoClose)
		}
		points = append(points, PostDismiss)
	}
	env := ToastEnv(ev)
	for _, point := range points {
		if err := r.Run(context.Background(), point, env); err != nil {
			r.opts.Logger.Error("hook aborted", "point", point, "toast_id", ev.Toast.ID, "error", err)
		}
	}
}

// Attach subscribes the runner to q.
func (r *Runner) Attach(q *toast.Queue) func() {
	return q.Subscribe(r.Observe)
}
