package toast

import (
	"log/slog"
	"time"
)

// DismissFunc is called by a container when one of its toasts has finished
// its exit animation.
type DismissFunc func(id string, reason DismissReason)

// Container holds the toasts rendered at one screen position, in insertion
// order. Its position is fixed at creation; moving toasts elsewhere needs a
// different container.
type Container struct {
	position      Position
	surface       Surface
	sched         Scheduler
	exitAnimation time.Duration
	logger        *slog.Logger

	toasts     []*Instance
	presenters map[string]*Presenter
	onDismiss  DismissFunc
	destroyed  bool
}

func newContainer(position Position, surface Surface, sched Scheduler, exitAnimation time.Duration, logger *slog.Logger) *Container {
	return &Container{
		position:      position,
		surface:       surface,
		sched:         sched,
		exitAnimation: exitAnimation,
		logger:        logger.With("position", string(position)),
		presenters:    make(map[string]*Presenter),
	}
}

// Position returns the container's fixed position.
func (c *Container) Position() Position {
	return c.position
}

// Surface returns the mounted surface the container renders into.
func (c *Container) Surface() Surface {
	return c.surface
}

// OnDismiss registers the callback invoked after a toast leaves the container
// through its presenter.
func (c *Container) OnDismiss(fn DismissFunc) {
	c.onDismiss = fn
}

// Len returns the number of toasts currently in the container.
func (c *Container) Len() int {
	return len(c.toasts)
}

// Add appends inst to the end of the list, starts its presenter and
// re-renders.
func (c *Container) Add(inst *Instance) {
	if c.destroyed {
		return
	}

	p := newPresenter(inst, c.sched, c.exitAnimation, c.logger, c.render, c.onToastDismissed)
	c.toasts = append(c.toasts, inst)
	c.presenters[inst.ID] = p

	c.render()
	p.start()
}

// Remove dismisses the toast with the given id as a manual dismissal. It
// leaves the list once its exit animation ends, like any other dismissal.
// Unknown ids are ignored.
func (c *Container) Remove(id string) bool {
	p, ok := c.presenters[id]
	if !ok || p.removing {
		return false
	}
	p.remove(ReasonManual)
	return true
}

// drop takes the toast with the given id out of the list without reporting
// a dismissal.
func (c *Container) drop(id string) {
	for i, inst := range c.toasts {
		if inst.ID != id {
			continue
		}
		c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
		if p, ok := c.presenters[id]; ok {
			p.stop()
			delete(c.presenters, id)
		}
		c.render()
		return
	}
}

// Presenter returns the presenter of the toast with the given id.
func (c *Container) Presenter(id string) (*Presenter, bool) {
	p, ok := c.presenters[id]
	return p, ok
}

// Interact delivers a host interaction to the toast with the given id.
func (c *Container) Interact(id string, in Interaction) bool {
	p, ok := c.presenters[id]
	if !ok {
		return false
	}
	return p.Interact(in)
}

// View returns the render model for the container's current state.
func (c *Container) View() ContainerView {
	view := ContainerView{
		Position: c.position,
		Stacking: c.position.Stacking(),
		Toasts:   make([]ToastView, 0, len(c.toasts)),
	}
	if c.surface != nil {
		view.SurfaceID = c.surface.ID()
	}
	for _, inst := range c.toasts {
		phase := PhaseEntering
		if p, ok := c.presenters[inst.ID]; ok {
			phase = p.Phase()
		}
		view.Toasts = append(view.Toasts, ToastView{Instance: inst, Phase: phase})
	}
	return view
}

// onToastDismissed is wired to every presenter: the toast leaves the list
// first, then the owner learns about it.
func (c *Container) onToastDismissed(inst *Instance, reason DismissReason) {
	c.drop(inst.ID)
	if c.onDismiss != nil {
		c.onDismiss(inst.ID, reason)
	}
}

func (c *Container) render() {
	if c.destroyed || c.surface == nil {
		return
	}
	c.surface.Render(c.View())
}

// destroy stops every remaining presenter. The container renders nothing
// afterwards.
func (c *Container) destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for id, p := range c.presenters {
		p.stop()
		delete(c.presenters, id)
	}
	c.toasts = nil
}
