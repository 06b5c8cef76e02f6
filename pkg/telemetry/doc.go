// Package telemetry provides toast.Observer implementations for Prometheus
// metrics and OpenTelemetry tracing.
//
// Both observers run on the toast event loop, like every other observer.
// Register them together with toast.WithObserver:
//
//	reg := prometheus.NewRegistry()
//	svc := toast.NewService(hub, loop, toast.WithObserver(
//	    telemetry.NewMetrics(telemetry.WithRegistry(reg)),
//	    telemetry.NewTracer(telemetry.WithTracerName("my-app")),
//	))
package telemetry
