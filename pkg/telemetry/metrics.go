package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/toastkit/pkg/toast"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "toastd").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for toast lifetimes, in seconds.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the lifetime histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// DefaultLifetimeBuckets covers toasts living from under a second to a few
// minutes.
var DefaultLifetimeBuckets = []float64{0.5, 1, 2, 3, 5, 8, 13, 30, 60, 300}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "toastd",
		Buckets:   DefaultLifetimeBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a toast.Observer that records toast lifecycle metrics. It also
// exposes counters for the host's patch stream.
//
// Metrics collected (with the default namespace):
//   - toastd_toasts_shown_total: toasts shown by type and position
//   - toastd_toasts_dismissed_total: toasts dismissed by reason
//   - toastd_toast_lifetime_seconds: time from show to dismissal, by reason
//   - toastd_toasts_active: toasts not yet dismissed
//   - toastd_containers_mounted: mounted container surfaces
//   - toastd_patches_sent_total: surface patches broadcast, by op
//   - toastd_clients_connected: connected clients, by transport
//   - toastd_patches_dropped_total: patches dropped for slow clients
type Metrics struct {
	shown          *prometheus.CounterVec
	dismissed      *prometheus.CounterVec
	lifetime       *prometheus.HistogramVec
	active         prometheus.Gauge
	containers     prometheus.Gauge
	patchesSent    *prometheus.CounterVec
	patchesDropped prometheus.Counter
	clients        *prometheus.GaugeVec

	config  MetricsConfig
	factory promauto.Factory
}

// NewMetrics registers the toast metrics and returns the observer.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	svc := toast.NewService(hub, loop, toast.WithObserver(m))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if len(config.Buckets) == 0 {
		config.Buckets = DefaultLifetimeBuckets
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		config:  config,
		factory: factory,

		shown: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toasts_shown_total",
			Help:        "Total number of toasts shown",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "position"}),

		dismissed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toasts_dismissed_total",
			Help:        "Total number of toasts dismissed",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		lifetime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toast_lifetime_seconds",
			Help:        "Time from show to dismissal in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"reason"}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toasts_active",
			Help:        "Number of toasts not yet dismissed",
			ConstLabels: config.ConstLabels,
		}),

		containers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "containers_mounted",
			Help:        "Number of mounted container surfaces",
			ConstLabels: config.ConstLabels,
		}),

		patchesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of surface patches broadcast to clients",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		patchesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_dropped_total",
			Help:        "Total number of patches dropped for slow clients",
			ConstLabels: config.ConstLabels,
		}),

		clients: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "clients_connected",
			Help:        "Number of connected clients",
			ConstLabels: config.ConstLabels,
		}, []string{"transport"}),
	}
}

// ToastShown implements toast.Observer.
func (m *Metrics) ToastShown(inst *toast.Instance) {
	m.shown.WithLabelValues(string(inst.Config.Type), string(inst.Config.Position)).Inc()
	m.active.Inc()
}

// ToastDismissed implements toast.Observer.
func (m *Metrics) ToastDismissed(_ *toast.Instance, reason toast.DismissReason, lifetime time.Duration) {
	m.dismissed.WithLabelValues(string(reason)).Inc()
	m.lifetime.WithLabelValues(string(reason)).Observe(lifetime.Seconds())
	m.active.Dec()
}

// ContainerMounted implements toast.Observer.
func (m *Metrics) ContainerMounted(toast.Position) {
	m.containers.Inc()
}

// ContainerUnmounted implements toast.Observer.
func (m *Metrics) ContainerUnmounted(toast.Position) {
	m.containers.Dec()
}

// RecordPatch counts one broadcast patch.
func (m *Metrics) RecordPatch(op string) {
	m.patchesSent.WithLabelValues(op).Inc()
}

// RecordDropped counts patches discarded for a slow client.
func (m *Metrics) RecordDropped(n int) {
	m.patchesDropped.Add(float64(n))
}

// ClientConnected records a client joining over transport.
func (m *Metrics) ClientConnected(transport string) {
	m.clients.WithLabelValues(transport).Inc()
}

// ClientDisconnected records a client leaving.
func (m *Metrics) ClientDisconnected(transport string) {
	m.clients.WithLabelValues(transport).Dec()
}

// LoopStatser is satisfied by toast.EventLoop.
type LoopStatser interface {
	Stats() toast.LoopStats
}

// RegisterLoop exports the event loop counters.
func (m *Metrics) RegisterLoop(loop LoopStatser) {
	m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   m.config.Namespace,
		Subsystem:   m.config.Subsystem,
		Name:        "loop_callbacks_total",
		Help:        "Total number of callbacks run on the event loop",
		ConstLabels: m.config.ConstLabels,
	}, func() float64 { return float64(loop.Stats().Executed) })

	m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   m.config.Namespace,
		Subsystem:   m.config.Subsystem,
		Name:        "loop_panics_total",
		Help:        "Total number of recovered panics on the event loop",
		ConstLabels: m.config.ConstLabels,
	}, func() float64 { return float64(loop.Stats().Panics) })

	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   m.config.Namespace,
		Subsystem:   m.config.Subsystem,
		Name:        "loop_queue_length",
		Help:        "Number of callbacks waiting on the event loop",
		ConstLabels: m.config.ConstLabels,
	}, func() float64 { return float64(loop.Stats().Queued) })
}
