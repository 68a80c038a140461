package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/history"
	"github.com/cristianoliveira/toastq/internal/hooks"
	"github.com/cristianoliveira/toastq/internal/logging"
	"github.com/cristianoliveira/toastq/internal/metrics"
	"github.com/cristianoliveira/toastq/internal/storage"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var errHistoryDisabled = errors.New("history is disabled (history_enabled=false)")

// runtime is a queue with every configured observer attached.
type runtime struct {
	queue    *toast.Queue
	store    storage.Store
	history  *domain.HistoryService
	hooks    *hooks.Runner
	registry *prometheus.Registry
	logger   logging.Logger
	detach   []func()
}

type runtimeOptions struct {
	// hookOutput replaces stderr as the destination of hook script output.
	hookOutput io.Writer
}

// newRuntime builds the queue from the loaded config.
func newRuntime(opts runtimeOptions) (*runtime, error) {
	logger := logging.GetGlobal()
	rt := &runtime{
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	rt.queue = toast.New(
		toast.WithDefaultDuration(config.GetDurationMillis("default_duration_ms", toast.DefaultDuration)),
		toast.WithDefaultPosition(defaultPosition()),
		toast.WithDismissible(config.GetBool("dismissible", true)),
		toast.WithLogger(logger),
	)

	rt.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rt.detach = append(rt.detach, metrics.New(metrics.WithRegistry(rt.registry)).Attach(rt.queue))

	if config.GetBool("history_enabled", true) {
		store, err := storage.NewFromConfig()
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		rt.store = store
		rt.history = domain.NewHistoryService(store)
		rt.detach = append(rt.detach, history.NewRecorder(store, logger).Attach(rt.queue))
	}

	hookOpts := hooks.OptionsFromConfig()
	if opts.hookOutput != nil {
		hookOpts.Output = opts.hookOutput
	}
	rt.hooks = hooks.NewRunner(hookOpts)
	if hookOpts.Enabled {
		if err := rt.hooks.EnsureDirs(); err != nil {
			logger.Warn("could not create hook directories", "error", err)
		}
	}
	rt.detach = append(rt.detach, rt.hooks.Attach(rt.queue))

	return rt, nil
}

// Close dismisses what is still on screen so history and hooks see it,
// then releases the observers and the store.
func (rt *runtime) Close() error {
	rt.queue.DismissAll()
	rt.hooks.Wait()
	for i := len(rt.detach) - 1; i >= 0; i-- {
		rt.detach[i]()
	}
	if rt.store != nil {
		return rt.store.Close()
	}
	return nil
}

// openHistory opens the configured history store without a queue.
func openHistory() (*domain.HistoryService, func() error, error) {
	if !config.GetBool("history_enabled", true) {
		return nil, nil, errHistoryDisabled
	}
	store, err := storage.NewFromConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	return domain.NewHistoryService(store), store.Close, nil
}

func defaultPosition() domain.Position {
	p, err := domain.ParsePosition(config.Get("default_position", string(domain.PositionBottomRight)))
	if err != nil {
		return domain.PositionBottomRight
	}
	return p
}
