// Package toast provides transient notification surfaces ("toasts") for
// toastkit applications.
//
// A Service creates toasts on demand, groups them into one Container per
// screen Position, runs each toast's lifecycle through a Presenter and tears
// containers down again as soon as their last toast is gone. Rendering is
// left to an injected Mounter: the core only asks it to mount a Surface for a
// position, re-render that surface with a ContainerView, and unmount it.
//
// # Event Loop
//
// Service, Container and Presenter are single-threaded. Every method on them
// must run on the Scheduler's loop, which is also where timers, animation
// frames and dismiss requests are delivered:
//
//	loop := toast.NewEventLoop()
//	go loop.Run(ctx)
//
//	svc := toast.NewService(mounter, loop)
//	loop.Dispatch(func() {
//	    ref := svc.Success(toast.Text("Project saved"))
//	    _ = ref
//	})
//
// Code running on other goroutines uses EventLoop.Do to call into the
// service and wait for the result. Ref is the exception: Dismiss,
// AfterDismissed and Done are safe from any goroutine.
//
// # Lifecycle
//
// Each toast moves through entering → visible → (paused ⇄ visible) →
// removing → gone. A toast with a positive Duration dismisses itself with
// ReasonTimeout; hovering pauses the countdown when PauseOnHover is set.
// Close, click, action, swipe and Ref.Dismiss all funnel into the same exit
// path, so AfterDismissed delivers exactly one DismissReason per toast:
//
//	ref := svc.Show(toast.Text("Saved"),
//	    toast.WithDuration(3*time.Second),
//	    toast.WithPosition(toast.PositionBottomLeft),
//	)
//	go func() {
//	    reason := <-ref.AfterDismissed()
//	    log.Printf("toast closed: %s", reason)
//	}()
//
// A Duration of 0 makes the toast persistent; such toasts are always
// closeable.
package toast
