package host

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/toastkit/internal/errors"
	"github.com/vango-dev/toastkit/pkg/toast"
	"github.com/vango-dev/toastkit/pkg/toastui"
)

// Loop runs closures on the toast event loop and waits for them.
// *toast.EventLoop implements it.
type Loop interface {
	Do(ctx context.Context, fn func()) error
}

const (
	// DefaultRequestTimeout bounds how long a handler waits for the loop.
	DefaultRequestTimeout = 5 * time.Second

	// DefaultPingInterval is how often idle WebSocket clients are pinged.
	DefaultPingInterval = 30 * time.Second

	// DefaultMetricsPath serves Prometheus metrics when a gatherer is set.
	DefaultMetricsPath = "/metrics"
)

// Host serves toast surfaces to browsers and exposes the toast service over
// HTTP. Every service call is made on the loop through Loop.Do.
type Host struct {
	service *toast.Service
	loop    Loop
	hub     *Hub
	logger  *slog.Logger

	gatherer       prometheus.Gatherer
	metricsPath    string
	requestTimeout time.Duration
	pingInterval   time.Duration
	allowedOrigins []string

	title         string
	transport     toastui.Transport
	exitAnimation time.Duration

	upgrader websocket.Upgrader
	router   chi.Router
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithGatherer serves g at path. An empty path uses DefaultMetricsPath.
func WithGatherer(g prometheus.Gatherer, path string) Option {
	return func(h *Host) {
		h.gatherer = g
		if path != "" {
			h.metricsPath = path
		}
	}
}

// WithRequestTimeout bounds how long a handler waits for the loop.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

// WithPingInterval sets the WebSocket heartbeat interval.
func WithPingInterval(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.pingInterval = d
		}
	}
}

// WithAllowedOrigins lists cross-origin WebSocket origins that are accepted
// in addition to same-origin requests. "*" accepts any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Host) {
		h.allowedOrigins = append(h.allowedOrigins, origins...)
	}
}

// WithPage configures the page served at "/".
func WithPage(title string, transport toastui.Transport, exitAnimation time.Duration) Option {
	return func(h *Host) {
		h.title = title
		h.transport = transport
		h.exitAnimation = exitAnimation
	}
}

// New creates a Host. hub must be the Mounter the service was built with.
func New(service *toast.Service, loop Loop, hub *Hub, opts ...Option) *Host {
	h := &Host{
		service:        service,
		loop:           loop,
		hub:            hub,
		logger:         slog.Default().With("component", "host"),
		metricsPath:    DefaultMetricsPath,
		requestTimeout: DefaultRequestTimeout,
		pingInterval:   DefaultPingInterval,
		transport:      toastui.TransportWebSocket,
		exitAnimation:  toast.DefaultExitAnimation,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	h.router = h.routes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Hub returns the hub the host streams from.
func (h *Host) Hub() *Hub {
	return h.hub
}

func (h *Host) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", h.handlePage)
	r.Get("/healthz", h.handleHealth)
	r.Get("/ws", h.handleWebSocket)
	r.Get("/sse", h.handleSSE)

	r.Route("/api/toasts", func(r chi.Router) {
		r.Post("/", h.handleShow)
		r.Get("/count", h.handleCount)
		r.Post("/dismiss-all", h.handleDismissAll)
		r.Get("/{id}", h.handleLookup)
		r.Post("/{id}/dismiss", h.handleDismiss)
		r.Post("/{id}/events/{interaction}", h.handleEvent)
	})

	if h.gatherer != nil {
		r.Method(http.MethodGet, h.metricsPath, promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})
	return r
}

// do runs fn on the loop within the request timeout. Results written by fn
// may only be read when do returns nil.
func (h *Host) do(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	if err := h.loop.Do(ctx, fn); err != nil {
		return errors.New(errors.CodeServiceUnavailable).Wrap(err)
	}
	return nil
}

// checkOrigin accepts same-origin requests, requests without an Origin
// header and the configured allowed origins.
func (h *Host) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// logRequests logs one line per request with slog.
func (h *Host) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (h *Host) handlePage(w http.ResponseWriter, r *http.Request) {
	transport := h.transport
	if t := r.URL.Query().Get("transport"); t != "" {
		transport = toastui.Transport(t)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := toastui.Page(toastui.PageOptions{
		Title:         h.title,
		Transport:     transport,
		ExitAnimation: h.exitAnimation,
	})
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("page render failed", "error", err)
	}
}

func (h *Host) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.do(r.Context(), func() {}); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
