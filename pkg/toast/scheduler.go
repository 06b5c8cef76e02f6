package toast

import "time"

// Cancel stops a scheduled callback. Calling it after the callback ran, or
// more than once, is a no-op.
type Cancel func()

// Scheduler is the clock and event loop the toast core runs on.
//
// All callbacks scheduled through AfterFunc, Frame and Dispatch run serially
// on the same loop, one at a time and to completion. A cancelled callback
// must never run, even if its timer already expired.
type Scheduler interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc runs fn on the loop after d.
	AfterFunc(d time.Duration, fn func()) Cancel

	// Frame runs fn on the loop at the next rendering frame.
	Frame(fn func()) Cancel

	// Dispatch queues fn to run on the loop. Safe from any goroutine.
	Dispatch(fn func())
}
