package toast

import (
	"log/slog"
	"sort"
	"time"
)

// Service creates toasts and manages one container per position. A
// position's container is mounted when it receives its first toast and is
// unmounted synchronously when its last toast is dismissed, so the number of
// live surfaces never exceeds the number of positions with visible toasts.
//
// Service is not safe for concurrent use; call it on the Scheduler's loop.
type Service struct {
	mounter Mounter
	sched   Scheduler

	defaults      Config
	exitAnimation time.Duration
	newID         IDGenerator
	observer      Observer
	logger        *slog.Logger

	containers map[Position]*containerEntry
	active     map[string]*activeToast
	seq        uint64
}

type containerEntry struct {
	container  *Container
	toastCount int
}

type activeToast struct {
	instance *Instance
	position Position
	seq      uint64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDefaults sets the configuration toasts are resolved against.
func WithDefaults(cfg Config) ServiceOption {
	return func(s *Service) {
		s.defaults = cfg
	}
}

// WithExitAnimation sets the delay between a toast starting to leave and its
// dismissal being reported.
func WithExitAnimation(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d >= 0 {
			s.exitAnimation = d
		}
	}
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(gen IDGenerator) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithObserver registers lifecycle observers.
func WithObserver(observers ...Observer) ServiceOption {
	return func(s *Service) {
		switch len(observers) {
		case 0:
		case 1:
			s.observer = observers[0]
		default:
			s.observer = Observers(observers)
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service that mounts containers through mounter and
// runs on sched.
func NewService(mounter Mounter, sched Scheduler, opts ...ServiceOption) *Service {
	s := &Service{
		mounter:       mounter,
		sched:         sched,
		defaults:      DefaultConfig(),
		exitAnimation: DefaultExitAnimation,
		newID:         NewID,
		observer:      NopObserver{},
		logger:        slog.Default().With("component", "toast"),
		containers:    make(map[Position]*containerEntry),
		active:        make(map[string]*activeToast),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.defaults = resolveConfig(DefaultConfig(), []Option{WithConfig(s.defaults)})
	return s
}

// Defaults returns the resolved default configuration.
func (s *Service) Defaults() Config {
	return s.defaults
}

// Show displays msg and returns its Ref immediately. opts are applied over
// the service defaults.
func (s *Service) Show(msg Message, opts ...Option) *Ref {
	cfg := resolveConfig(s.defaults, opts)
	entry := s.containerFor(cfg.Position)

	id := s.newID()
	ref := newRef(id)
	inst := &Instance{
		ID:        id,
		Message:   msg,
		Config:    cfg,
		Ref:       ref,
		CreatedAt: s.sched.Now(),
	}

	s.seq++
	s.active[id] = &activeToast{instance: inst, position: cfg.Position, seq: s.seq}
	entry.toastCount++

	s.logger.Debug("toast shown",
		"toast_id", id,
		"type", cfg.Type,
		"position", cfg.Position,
		"duration", cfg.Duration)
	s.observer.ToastShown(inst)

	entry.container.Add(inst)
	return ref
}

// ShowText displays a plain-text toast.
func (s *Service) ShowText(text string, opts ...Option) *Ref {
	return s.Show(Text(text), opts...)
}

// Success shows a toast of TypeSuccess, overriding any type in opts.
func (s *Service) Success(msg Message, opts ...Option) *Ref {
	return s.Show(msg, withForcedType(opts, TypeSuccess)...)
}

// Error shows a toast of TypeError, overriding any type in opts.
func (s *Service) Error(msg Message, opts ...Option) *Ref {
	return s.Show(msg, withForcedType(opts, TypeError)...)
}

// Warning shows a toast of TypeWarning, overriding any type in opts.
func (s *Service) Warning(msg Message, opts ...Option) *Ref {
	return s.Show(msg, withForcedType(opts, TypeWarning)...)
}

// Info shows a toast of TypeInfo, overriding any type in opts.
func (s *Service) Info(msg Message, opts ...Option) *Ref {
	return s.Show(msg, withForcedType(opts, TypeInfo)...)
}

// Default shows a toast of TypeDefault, overriding any type in opts.
func (s *Service) Default(msg Message, opts ...Option) *Ref {
	return s.Show(msg, withForcedType(opts, TypeDefault)...)
}

// DismissAll asks every live toast to close. It does not wait: each toast
// reports back through its own exit path.
func (s *Service) DismissAll() {
	toasts := s.activeInOrder()
	for _, at := range toasts {
		at.instance.Ref.Dismiss()
	}
}

// ActiveCount returns the number of toasts that have not been finalized.
func (s *Service) ActiveCount() int {
	return len(s.active)
}

// ContainerCount returns the number of mounted containers.
func (s *Service) ContainerCount() int {
	return len(s.containers)
}

// ToastCount returns the number of live toasts at position.
func (s *Service) ToastCount(position Position) int {
	if entry, ok := s.containers[position]; ok {
		return entry.toastCount
	}
	return 0
}

// Positions returns the positions that currently have a container, in
// canonical order.
func (s *Service) Positions() []Position {
	positions := make([]Position, 0, len(s.containers))
	for _, p := range AllPositions() {
		if _, ok := s.containers[p]; ok {
			positions = append(positions, p)
		}
	}
	return positions
}

// Container returns the container mounted at position.
func (s *Service) Container(position Position) (*Container, bool) {
	entry, ok := s.containers[position]
	if !ok {
		return nil, false
	}
	return entry.container, true
}

// Lookup returns the live toast with the given id.
func (s *Service) Lookup(id string) (*Instance, bool) {
	at, ok := s.active[id]
	if !ok {
		return nil, false
	}
	return at.instance, true
}

// Interact delivers a host interaction to the toast with the given id. It
// returns false when the toast is unknown or the interaction had no effect.
func (s *Service) Interact(id string, in Interaction) bool {
	at, ok := s.active[id]
	if !ok {
		return false
	}
	entry, ok := s.containers[at.position]
	if !ok {
		return false
	}
	return entry.container.Interact(id, in)
}

// handleDismiss finalizes a toast reported by its container. Unknown ids
// are ignored so duplicate reports are harmless.
func (s *Service) handleDismiss(id string, reason DismissReason) {
	at, ok := s.active[id]
	if !ok {
		s.logger.Debug("dismiss for unknown toast ignored", "toast_id", id, "reason", reason)
		return
	}

	at.instance.Ref.markDismissed(reason)
	delete(s.active, id)

	lifetime := s.sched.Now().Sub(at.instance.CreatedAt)
	s.logger.Debug("toast dismissed",
		"toast_id", id,
		"reason", reason,
		"lifetime", lifetime)
	s.observer.ToastDismissed(at.instance, reason, lifetime)

	entry, ok := s.containers[at.position]
	if !ok {
		return
	}
	entry.toastCount--
	if entry.toastCount <= 0 {
		s.destroyContainer(at.position, entry)
	}
}

// containerFor returns the container for position, mounting it on first use.
func (s *Service) containerFor(position Position) *containerEntry {
	if entry, ok := s.containers[position]; ok {
		return entry
	}

	surface := s.mounter.Mount(MountRequest{
		Position: position,
		Stacking: position.Stacking(),
	})
	c := newContainer(position, surface, s.sched, s.exitAnimation, s.logger)
	c.OnDismiss(s.handleDismiss)

	entry := &containerEntry{container: c}
	s.containers[position] = entry

	s.logger.Debug("container mounted", "position", position, "surface", surfaceID(surface))
	s.observer.ContainerMounted(position)
	return entry
}

func (s *Service) destroyContainer(position Position, entry *containerEntry) {
	entry.container.destroy()
	if surface := entry.container.Surface(); surface != nil {
		s.mounter.Unmount(surface)
	}
	delete(s.containers, position)

	s.logger.Debug("container unmounted", "position", position)
	s.observer.ContainerUnmounted(position)
}

func (s *Service) activeInOrder() []*activeToast {
	toasts := make([]*activeToast, 0, len(s.active))
	for _, at := range s.active {
		toasts = append(toasts, at)
	}
	sort.Slice(toasts, func(i, j int) bool {
		return toasts[i].seq < toasts[j].seq
	})
	return toasts
}

func surfaceID(s Surface) string {
	if s == nil {
		return ""
	}
	return s.ID()
}
