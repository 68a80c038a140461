// Package metrics exposes queue activity as Prometheus metrics.
package metrics

import (
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collector.
type Config struct {
	// Namespace prefixes every metric (default: "toastq").
	Namespace string
	// Buckets are the lifetime histogram buckets in seconds.
	Buckets []float64
	// Registry receives the metrics (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithBuckets sets the lifetime histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the registry the metrics are registered with.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

// Collector observes a queue and records its activity.
type Collector struct {
	enqueued  *prometheus.CounterVec
	updated   prometheus.Counter
	dismissed *prometheus.CounterVec
	active    prometheus.Gauge
	lifetime  *prometheus.HistogramVec
}

// New registers the queue metrics and returns the collector.
func New(opts ...Option) *Collector {
	cfg := Config{
		Namespace: "toastq",
		Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60, 300},
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Collector{
		enqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_enqueued_total",
			Help:      "Toasts enqueued, including replacements of a live ID",
		}, []string{"kind", "position"}),
		updated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_updated_total",
			Help:      "In-place toast updates",
		}),
		dismissed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_dismissed_total",
			Help:      "Dismissed toasts by reason",
		}, []string{"reason"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_active",
			Help:      "Toasts currently on screen",
		}),
		lifetime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "toast_lifetime_seconds",
			Help:      "Time from enqueue to dismissal",
			Buckets:   cfg.Buckets,
		}, []string{"kind"}),
	}
}

// Observe records a queue event.
func (c *Collector) Observe(ev toast.Event) {
	switch ev.Type {
	case toast.EventEnqueued:
		c.enqueued.WithLabelValues(string(ev.Toast.Kind), string(ev.Toast.Position)).Inc()
		if !ev.Replaced {
			c.active.Inc()
		}
	case toast.EventUpdated:
		c.updated.Inc()
	case toast.EventDismissed:
		c.dismissed.WithLabelValues(string(ev.Reason)).Inc()
		c.active.Dec()
		if !ev.Toast.CreatedAt.IsZero() {
			c.lifetime.WithLabelValues(string(ev.Toast.Kind)).Observe(ev.At.Sub(ev.Toast.CreatedAt).Seconds())
		}
	}
}

// Attach subscribes the collector to q.
func (c *Collector) Attach(q *toast.Queue) func() {
	return q.Subscribe(c.Observe)
}
