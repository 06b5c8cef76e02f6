package host

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/toastkit/pkg/toast"
	"github.com/vango-dev/toastkit/pkg/toastui"
)

// PatchOp is the kind of surface change a Patch carries.
type PatchOp string

const (
	OpMount   PatchOp = "mount"
	OpRender  PatchOp = "render"
	OpUnmount PatchOp = "unmount"
)

// Patch is one surface change broadcast to connected clients.
type Patch struct {
	Op       PatchOp        `json:"op"`
	Surface  string         `json:"surface"`
	Position toast.Position `json:"position"`
	HTML     string         `json:"html,omitempty"`
	Seq      uint64         `json:"seq"`
}

// Recorder receives hub and transport counters. *telemetry.Metrics
// implements it.
type Recorder interface {
	RecordPatch(op string)
	RecordDropped(n int)
	ClientConnected(transport string)
	ClientDisconnected(transport string)
}

type nopRecorder struct{}

func (nopRecorder) RecordPatch(string)        {}
func (nopRecorder) RecordDropped(int)         {}
func (nopRecorder) ClientConnected(string)    {}
func (nopRecorder) ClientDisconnected(string) {}

// DefaultClientBuffer is the per-client patch queue length.
const DefaultClientBuffer = 64

// Hub is a toast.Mounter that renders each surface to HTML and broadcasts
// the result to every subscribed client. It keeps the latest HTML of every
// mounted surface so new clients start from a snapshot.
//
// Mount, Unmount and Render are called on the toast loop; Subscribe and
// Unsubscribe are safe from any goroutine.
type Hub struct {
	logger   *slog.Logger
	recorder Recorder
	buffer   int

	mu       sync.Mutex
	seq      uint64
	next     uint64
	surfaces map[string]*surface
	order    []string
	clients  map[string]*Client
	closed   bool
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubLogger sets the hub logger.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRecorder sets the counters sink.
func WithRecorder(r Recorder) HubOption {
	return func(h *Hub) {
		if r != nil {
			h.recorder = r
		}
	}
}

// WithClientBuffer sets the per-client patch queue length. A client whose
// queue is full is disconnected.
func WithClientBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		logger:   slog.Default().With("component", "hub"),
		recorder: nopRecorder{},
		buffer:   DefaultClientBuffer,
		surfaces: make(map[string]*surface),
		clients:  make(map[string]*Client),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount implements toast.Mounter.
func (h *Hub) Mount(req toast.MountRequest) toast.Surface {
	h.mu.Lock()
	h.next++
	s := &surface{
		hub:      h,
		id:       surfaceID(req.Position, h.next),
		position: req.Position,
		stacking: req.Stacking,
	}
	h.mu.Unlock()

	html := s.renderHTML(toast.ContainerView{
		SurfaceID: s.id,
		Position:  s.position,
		Stacking:  s.stacking,
	})

	h.mu.Lock()
	s.html = html
	h.surfaces[s.id] = s
	h.order = append(h.order, s.id)
	h.broadcastLocked(Patch{Op: OpMount, Surface: s.id, Position: s.position, HTML: html})
	h.mu.Unlock()

	h.logger.Debug("surface mounted", "surface", s.id, "position", s.position)
	return s
}

// Unmount implements toast.Mounter.
func (h *Hub) Unmount(ts toast.Surface) {
	s, ok := ts.(*surface)
	if !ok || s.hub != h {
		return
	}

	h.mu.Lock()
	if _, live := h.surfaces[s.id]; !live {
		h.mu.Unlock()
		return
	}
	delete(h.surfaces, s.id)
	for i, id := range h.order {
		if id == s.id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.broadcastLocked(Patch{Op: OpUnmount, Surface: s.id, Position: s.position})
	h.mu.Unlock()

	h.logger.Debug("surface unmounted", "surface", s.id, "position", s.position)
}

// Snapshot returns a mount patch for every live surface, in mount order.
func (h *Hub) Snapshot() []Patch {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hub) snapshotLocked() []Patch {
	patches := make([]Patch, 0, len(h.order))
	for _, id := range h.order {
		s := h.surfaces[id]
		patches = append(patches, Patch{
			Op:       OpMount,
			Surface:  s.id,
			Position: s.position,
			HTML:     s.html,
			Seq:      h.seq,
		})
	}
	return patches
}

// Surfaces returns the number of mounted surfaces.
func (h *Hub) Surfaces() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.surfaces)
}

// Subscribe registers a client and returns it together with the snapshot it
// must apply before reading from Patches. No patch is lost or duplicated
// between the two.
func (h *Hub) Subscribe(transport string) (*Client, []Patch) {
	c := &Client{
		ID:        uuid.NewString(),
		Transport: transport,
		patches:   make(chan Patch, h.buffer),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		c.close()
		return c, nil
	}
	snapshot := h.snapshotLocked()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.recorder.ClientConnected(transport)
	h.logger.Debug("client subscribed", "client", c.ID, "transport", transport, "surfaces", len(snapshot))
	return c, snapshot
}

// Unsubscribe removes a client. It is safe to call more than once.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	if ok {
		delete(h.clients, c.ID)
		c.close()
	}
	h.mu.Unlock()

	if ok {
		h.recorder.ClientDisconnected(c.Transport)
		h.logger.Debug("client unsubscribed", "client", c.ID)
	}
}

// Clients returns the number of subscribed clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Later subscribers are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*Client)
	for _, c := range clients {
		c.close()
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.recorder.ClientDisconnected(c.Transport)
	}
}

func (h *Hub) render(s *surface, view toast.ContainerView) {
	html := s.renderHTML(view)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, live := h.surfaces[s.id]; !live {
		return
	}
	s.html = html
	h.broadcastLocked(Patch{Op: OpRender, Surface: s.id, Position: s.position, HTML: html})
}

// broadcastLocked stamps p with the next sequence number and queues it for
// every client. Clients that cannot keep up are dropped.
func (h *Hub) broadcastLocked(p Patch) {
	h.seq++
	p.Seq = h.seq
	h.recorder.RecordPatch(string(p.Op))

	for id, c := range h.clients {
		select {
		case c.patches <- p:
		default:
			delete(h.clients, id)
			c.close()
			h.recorder.RecordDropped(1)
			h.recorder.ClientDisconnected(c.Transport)
			h.logger.Warn("slow client dropped", "client", id, "transport", c.Transport)
		}
	}
}

// Client is one subscriber of the hub.
type Client struct {
	ID        string
	Transport string

	patches chan Patch
	done    chan struct{}
	once    sync.Once
}

// Patches delivers patches in sequence order.
func (c *Client) Patches() <-chan Patch {
	return c.patches
}

// Done is closed when the client is unsubscribed or dropped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// surface is a hub-backed toast.Surface.
type surface struct {
	hub      *Hub
	id       string
	position toast.Position
	stacking toast.Stacking

	// html is guarded by hub.mu.
	html string
}

func (s *surface) ID() string {
	return s.id
}

func (s *surface) Render(view toast.ContainerView) {
	s.hub.render(s, view)
}

func (s *surface) renderHTML(view toast.ContainerView) string {
	html, err := toastui.RenderString(context.Background(), toastui.Container(view))
	if err != nil {
		s.hub.logger.Error("surface render failed", "surface", s.id, "error", err)
		return ""
	}
	return html
}

func surfaceID(position toast.Position, n uint64) string {
	return "toasts-" + string(position) + "-" + strconv.FormatUint(n, 10)
}
