// Package dragmetrics exports drag lifecycle events as Prometheus metrics.
package dragmetrics

import (
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/phanxgames/dragbind"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "dragbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// DurationBuckets are the histogram buckets for drag duration.
	// Default: prometheus.DefBuckets
	DurationBuckets []float64

	// DistanceBuckets are the histogram buckets for drag distance in pixels.
	DistanceBuckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithDurationBuckets sets the drag duration histogram buckets.
func WithDurationBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.DurationBuckets = buckets
	}
}

// WithDistanceBuckets sets the drag distance histogram buckets.
func WithDistanceBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.DistanceBuckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:       "dragbind",
		DurationBuckets: prometheus.DefBuckets,
		DistanceBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		Registry:        prometheus.DefaultRegisterer,
	}
}

// Collector is a dragbind.Observer feeding Prometheus metrics:
//
//   - dragbind_events_total: lifecycle events by name
//   - dragbind_active_drags: drags currently in progress
//   - dragbind_drag_duration_seconds: time from dragstart to dragend
//   - dragbind_drag_distance_pixels: distance between start and end position
type Collector struct {
	eventsTotal  *prometheus.CounterVec
	activeDrags  prometheus.Gauge
	dragDuration prometheus.Histogram
	dragDistance prometheus.Histogram

	mu     sync.Mutex
	starts map[int]dragStart
}

type dragStart struct {
	at  time.Time
	pos dragbind.Vec2
}

// New registers the collector's metrics and returns it. Registering twice
// against the same registry panics, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of drag lifecycle events fired",
			ConstLabels: config.ConstLabels,
		}, []string{"event"}),

		activeDrags: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_drags",
			Help:        "Number of drags in progress",
			ConstLabels: config.ConstLabels,
		}),

		dragDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drag_duration_seconds",
			Help:        "Drag duration from dragstart to dragend in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.DurationBuckets,
		}),

		dragDistance: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drag_distance_pixels",
			Help:        "Distance between drag start and end positions in pixels",
			ConstLabels: config.ConstLabels,
			Buckets:     config.DistanceBuckets,
		}),

		starts: map[int]dragStart{},
	}
}

// Observe implements dragbind.Observer. Every event is counted. Drag
// tracking follows the binding's real state: a dragstart only opens a drag
// while the binding is dragging and none is open yet, and a dragend only
// closes one once the binding has stopped, so events fired through
// InvokeEvent leave the gauge and histograms alone. Events without a
// binding are taken at face value.
func (c *Collector) Observe(ev *dragbind.Event) {
	c.eventsTotal.WithLabelValues(string(ev.Type)).Inc()

	id := ev.Binding.ID()
	bound := !ev.Binding.IsZero()
	switch ev.Type {
	case dragbind.EventDragStart:
		if bound && !ev.Binding.Dragging() {
			return
		}
		c.mu.Lock()
		_, open := c.starts[id]
		if !open {
			c.starts[id] = dragStart{at: ev.Timestamp, pos: ev.Pos}
		}
		c.mu.Unlock()
		if !open {
			c.activeDrags.Inc()
		}
	case dragbind.EventDragEnd:
		if bound && ev.Binding.Dragging() {
			return
		}
		c.mu.Lock()
		start, ok := c.starts[id]
		delete(c.starts, id)
		c.mu.Unlock()
		if !ok {
			return
		}
		c.activeDrags.Dec()
		c.dragDuration.Observe(ev.Timestamp.Sub(start.at).Seconds())
		d := ev.Pos.Sub(start.pos)
		c.dragDistance.Observe(math.Hypot(d.X, d.Y))
	}
}

// Compile-time interface satisfaction check.
var _ dragbind.Observer = (*Collector)(nil)
