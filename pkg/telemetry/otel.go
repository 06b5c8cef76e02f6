package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/toastkit/pkg/toast"
)

// DefaultTracerName is the instrumentation name used when none is set.
const DefaultTracerName = "github.com/vango-dev/toastkit"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer.
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = provider
	}
}

// Tracer is a toast.Observer that records one span per toast, from show to
// dismissal. Container mounts and unmounts become short spans of their own.
type Tracer struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewTracer creates the tracing observer.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in main() before starting the host:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: DefaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerName == "" {
		config.TracerName = DefaultTracerName
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &Tracer{
		tracer: provider.Tracer(config.TracerName),
		spans:  make(map[string]trace.Span),
	}
}

// ToastShown implements toast.Observer.
func (t *Tracer) ToastShown(inst *toast.Instance) {
	cfg := inst.Config
	_, span := t.tracer.Start(context.Background(), "toast.show",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(inst.CreatedAt),
		trace.WithAttributes(
			attribute.String("toast.id", inst.ID),
			attribute.String("toast.type", string(cfg.Type)),
			attribute.String("toast.position", string(cfg.Position)),
			attribute.Int64("toast.duration_ms", cfg.Duration.Milliseconds()),
			attribute.Bool("toast.persistent", cfg.Persistent()),
			attribute.Bool("toast.template", inst.IsTemplate()),
			attribute.Bool("toast.has_action", cfg.Action != nil),
		),
	)

	t.mu.Lock()
	t.spans[inst.ID] = span
	t.mu.Unlock()
}

// ToastDismissed implements toast.Observer.
func (t *Tracer) ToastDismissed(inst *toast.Instance, reason toast.DismissReason, lifetime time.Duration) {
	t.mu.Lock()
	span, ok := t.spans[inst.ID]
	delete(t.spans, inst.ID)
	t.mu.Unlock()
	if !ok {
		return
	}

	span.SetAttributes(
		attribute.String("toast.reason", string(reason)),
		attribute.Int64("toast.lifetime_ms", lifetime.Milliseconds()),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(inst.CreatedAt.Add(lifetime)))
}

// ContainerMounted implements toast.Observer.
func (t *Tracer) ContainerMounted(position toast.Position) {
	t.containerSpan("toast.container.mount", position)
}

// ContainerUnmounted implements toast.Observer.
func (t *Tracer) ContainerUnmounted(position toast.Position) {
	t.containerSpan("toast.container.unmount", position)
}

func (t *Tracer) containerSpan(name string, position toast.Position) {
	_, span := t.tracer.Start(context.Background(), name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("toast.position", string(position))),
	)
	span.End()
}

// Open returns the number of toast spans not yet ended.
func (t *Tracer) Open() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}
