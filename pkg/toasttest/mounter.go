package toasttest

import (
	"fmt"
	"sync"

	"github.com/vango-dev/toastkit/pkg/toast"
)

// Op is a recorded mounter operation.
type Op string

const (
	OpMount   Op = "mount"
	OpRender  Op = "render"
	OpUnmount Op = "unmount"
)

// Event is one recorded mounter operation.
type Event struct {
	Op       Op
	Surface  string
	Position toast.Position
	Toasts   int
}

// Mounter is a toast.Mounter that records every operation and keeps the
// latest view of each surface.
type Mounter struct {
	mu       sync.Mutex
	next     int
	live     map[string]*Surface
	events   []Event
	mounts   int
	unmounts int
}

// NewMounter creates an empty recording Mounter.
func NewMounter() *Mounter {
	return &Mounter{live: make(map[string]*Surface)}
}

// Mount creates a recording Surface.
func (m *Mounter) Mount(req toast.MountRequest) toast.Surface {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	s := &Surface{
		mounter:  m,
		id:       fmt.Sprintf("surface-%d", m.next),
		position: req.Position,
		stacking: req.Stacking,
	}
	m.live[s.id] = s
	m.mounts++
	m.events = append(m.events, Event{Op: OpMount, Surface: s.id, Position: req.Position})
	return s
}

// Unmount releases a Surface created by Mount.
func (m *Mounter) Unmount(surface toast.Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := surface.(*Surface)
	if !ok {
		return
	}
	s.unmounted = true
	delete(m.live, s.id)
	m.unmounts++
	m.events = append(m.events, Event{Op: OpUnmount, Surface: s.id, Position: s.position})
}

// Live returns the number of mounted surfaces.
func (m *Mounter) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Mounts returns how many surfaces were ever mounted.
func (m *Mounter) Mounts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounts
}

// Unmounts returns how many surfaces were unmounted.
func (m *Mounter) Unmounts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unmounts
}

// At returns the live surface for position.
func (m *Mounter) At(position toast.Position) (*Surface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.live {
		if s.position == position {
			return s, true
		}
	}
	return nil, false
}

// Events returns a copy of the recorded operations.
func (m *Mounter) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Surface is a recording toast.Surface.
type Surface struct {
	mounter   *Mounter
	id        string
	position  toast.Position
	stacking  toast.Stacking
	views     []toast.ContainerView
	unmounted bool
}

// ID returns the surface ID.
func (s *Surface) ID() string {
	return s.id
}

// Render records view.
func (s *Surface) Render(view toast.ContainerView) {
	s.mounter.mu.Lock()
	defer s.mounter.mu.Unlock()
	s.views = append(s.views, view)
	s.mounter.events = append(s.mounter.events, Event{
		Op:       OpRender,
		Surface:  s.id,
		Position: s.position,
		Toasts:   len(view.Toasts),
	})
}

// Position returns the position the surface was mounted for.
func (s *Surface) Position() toast.Position {
	return s.position
}

// Stacking returns the stacking direction requested at mount.
func (s *Surface) Stacking() toast.Stacking {
	return s.stacking
}

// Unmounted reports whether the surface was released.
func (s *Surface) Unmounted() bool {
	s.mounter.mu.Lock()
	defer s.mounter.mu.Unlock()
	return s.unmounted
}

// Renders returns how many times the surface was rendered.
func (s *Surface) Renders() int {
	s.mounter.mu.Lock()
	defer s.mounter.mu.Unlock()
	return len(s.views)
}

// Last returns the most recently rendered view.
func (s *Surface) Last() toast.ContainerView {
	s.mounter.mu.Lock()
	defer s.mounter.mu.Unlock()
	if len(s.views) == 0 {
		return toast.ContainerView{Position: s.position, Stacking: s.stacking}
	}
	return s.views[len(s.views)-1]
}

// IDs returns the toast IDs of the last rendered view, in list order.
func (s *Surface) IDs() []string {
	view := s.Last()
	ids := make([]string, len(view.Toasts))
	for i, t := range view.Toasts {
		ids[i] = t.ID
	}
	return ids
}
