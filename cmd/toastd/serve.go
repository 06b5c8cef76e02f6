package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/toastkit/internal/config"
	"github.com/vango-dev/toastkit/pkg/host"
	"github.com/vango-dev/toastkit/pkg/telemetry"
	"github.com/vango-dev/toastkit/pkg/toast"
	"github.com/vango-dev/toastkit/pkg/toastui"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr      string
		transport string
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the toast server",
		Long: `Start the toast server.

Configuration is read from --config, then TOASTD_* environment
variables. Flags override both.

Examples:
  toastd serve
  toastd serve --addr :9000
  toastd serve -c toastd.json --transport sse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			switch toastui.Transport(transport) {
			case toastui.TransportWebSocket, toastui.TransportSSE:
			default:
				return fmt.Errorf("unknown transport %q (want ws or sse)", transport)
			}

			if !quiet {
				printBanner()
				success("Listening on %s", cfg.Server.Address)
				if path := cfg.Path(); path != "" {
					info("Config:    %s", path)
				}
				info("Transport: %s", transport)
				if cfg.Metrics.Enabled {
					info("Metrics:   %s", cfg.Metrics.Path)
				}
				if cfg.Tracing.Enabled {
					warn("Tracing uses the global OpenTelemetry provider; register an exporter to keep spans")
				}
				fmt.Println()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, toastui.Transport(transport))
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.address)")
	cmd.Flags().StringVarP(&transport, "transport", "t", string(toastui.TransportWebSocket), "Page transport: ws or sse")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the startup banner")

	return cmd
}

// runServer wires the event loop, service, hub and host from cfg and serves
// until ctx is cancelled.
func runServer(ctx context.Context, cfg *config.Config, transport toastui.Transport) error {
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	loop := toast.NewEventLoop(
		toast.WithFrameInterval(cfg.Toast.FrameInterval),
		toast.WithLoopLogger(logger.With("component", "toast-loop")),
	)

	var (
		observers []toast.Observer
		recorder  host.Recorder
		gatherer  prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := telemetry.NewMetrics(
			telemetry.WithRegistry(registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
		)
		metrics.RegisterLoop(loop)
		observers = append(observers, metrics)
		recorder = metrics
		gatherer = registry
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, telemetry.NewTracer(telemetry.WithTracerName(cfg.Tracing.TracerName)))
	}

	hub := host.NewHub(
		host.WithHubLogger(logger.With("component", "hub")),
		host.WithRecorder(recorder),
		host.WithClientBuffer(cfg.Server.ClientBuffer),
	)
	service := toast.NewService(hub, loop,
		toast.WithDefaults(cfg.ToastDefaults()),
		toast.WithExitAnimation(cfg.Toast.ExitAnimation),
		toast.WithObserver(observers...),
		toast.WithLogger(logger.With("component", "toast")),
	)
	h := host.New(service, loop, hub,
		host.WithLogger(logger.With("component", "host")),
		host.WithGatherer(gatherer, cfg.Metrics.Path),
		host.WithRequestTimeout(cfg.Server.RequestTimeout),
		host.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		host.WithPage("toastd", transport, cfg.Toast.ExitAnimation),
	)

	// The loop outlives the server so in-flight handlers can finish during
	// shutdown.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go func() {
		if err := loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("event loop stopped", "error", err)
		}
	}()

	return host.NewServer(h, cfg.Server).Run(ctx)
}
