package telemetry

import (
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/toastkit/pkg/toast"
	"github.com/vango-dev/toastkit/pkg/toasttest"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func attr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func spansNamed(spans []sdktrace.ReadOnlySpan, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

func TestTracerSpanPerToast(t *testing.T) {
	recorder, tp := newRecorder()
	tracer := NewTracer(WithTracerProvider(tp), WithTracerName("toast-test"))
	h := toasttest.New(toast.WithObserver(tracer))

	ref := h.Service.Warning(toast.Text("low disk"), toast.WithDuration(2*time.Second))
	h.Settle()

	if got := tracer.Open(); got != 1 {
		t.Fatalf("Open() = %d, want 1", got)
	}
	if got := len(spansNamed(recorder.Ended(), "toast.show")); got != 0 {
		t.Fatalf("toast span ended early: %d", got)
	}

	h.Clock.Run(time.Minute)

	shows := spansNamed(recorder.Ended(), "toast.show")
	if len(shows) != 1 {
		t.Fatalf("ended toast spans = %d, want 1", len(shows))
	}
	span := shows[0]

	if span.InstrumentationScope().Name != "toast-test" {
		t.Errorf("tracer name = %q", span.InstrumentationScope().Name)
	}
	checks := map[string]string{
		"toast.id":       ref.ID(),
		"toast.type":     "warning",
		"toast.position": "top-right",
		"toast.reason":   "timeout",
	}
	for key, want := range checks {
		v, ok := attr(span, key)
		if !ok || v.AsString() != want {
			t.Errorf("%s = %v, want %q", key, v.Emit(), want)
		}
	}
	if v, ok := attr(span, "toast.duration_ms"); !ok || v.AsInt64() != 2000 {
		t.Errorf("toast.duration_ms = %v", v.Emit())
	}
	if v, ok := attr(span, "toast.persistent"); !ok || v.AsBool() {
		t.Errorf("toast.persistent = %v", v.Emit())
	}

	lifetime, _ := attr(span, "toast.lifetime_ms")
	if got := span.EndTime().Sub(span.StartTime()).Milliseconds(); got != lifetime.AsInt64() {
		t.Errorf("span length %dms does not match lifetime %dms", got, lifetime.AsInt64())
	}
	if tracer.Open() != 0 {
		t.Errorf("Open() = %d after dismissal", tracer.Open())
	}
}

func TestTracerContainerSpans(t *testing.T) {
	recorder, tp := newRecorder()
	tracer := NewTracer(WithTracerProvider(tp))
	h := toasttest.New(toast.WithObserver(tracer))

	ref := h.Service.ShowText("hi", toast.WithPosition(toast.PositionBottomCenter), toast.WithDuration(0))
	h.Settle()
	ref.Dismiss()
	h.Clock.Run(time.Minute)

	ended := recorder.Ended()
	for _, name := range []string{"toast.container.mount", "toast.container.unmount"} {
		spans := spansNamed(ended, name)
		if len(spans) != 1 {
			t.Fatalf("%s spans = %d, want 1", name, len(spans))
		}
		if v, _ := attr(spans[0], "toast.position"); v.AsString() != "bottom-center" {
			t.Errorf("%s position = %q", name, v.AsString())
		}
	}

	show := spansNamed(ended, "toast.show")
	if len(show) != 1 {
		t.Fatalf("toast spans = %d, want 1", len(show))
	}
	if v, _ := attr(show[0], "toast.reason"); v.AsString() != "manual" {
		t.Errorf("reason = %q, want manual", v.AsString())
	}
	if v, _ := attr(show[0], "toast.persistent"); !v.AsBool() {
		t.Error("persistent toast not marked")
	}
}

func TestTracerIgnoresUnknownDismissal(t *testing.T) {
	recorder, tp := newRecorder()
	tracer := NewTracer(WithTracerProvider(tp), WithTracerName(""))

	inst := &toast.Instance{ID: "ghost", Config: toast.DefaultConfig(), CreatedAt: time.Now()}
	tracer.ToastDismissed(inst, toast.ReasonManual, time.Second)

	if got := len(recorder.Ended()); got != 0 {
		t.Fatalf("unexpected spans: %d", got)
	}
}
