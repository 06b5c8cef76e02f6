package toast

// MountRequest describes the surface a new container needs.
type MountRequest struct {
	Position Position
	Stacking Stacking
}

// Surface is a mounted rendering surface owned by one container.
type Surface interface {
	// ID identifies the surface's root element.
	ID() string

	// Render replaces the surface content with view.
	Render(view ContainerView)
}

// Mounter is the host capability that creates and destroys rendering
// surfaces. The service calls Mount once when a position gets its first
// toast and Unmount once when the position's last toast is gone.
type Mounter interface {
	Mount(req MountRequest) Surface
	Unmount(s Surface)
}

// ContainerView is what a surface renders: the container's toasts in
// insertion order together with their lifecycle phase.
type ContainerView struct {
	SurfaceID string
	Position  Position
	Stacking  Stacking
	Toasts    []ToastView
}

// ToastView is one toast as rendered inside a container.
type ToastView struct {
	*Instance
	Phase Phase
}

// Len returns the number of toasts in the view.
func (v ContainerView) Len() int {
	return len(v.Toasts)
}
