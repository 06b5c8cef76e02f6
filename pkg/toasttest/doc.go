// Package toasttest provides deterministic test doubles for the toast core.
//
// Clock is a manual toast.Scheduler: timers only fire when the test advances
// time, and every callback runs on the test goroutine. Mounter records
// mount, render and unmount calls.
//
// Example:
//
//	func TestSaved(t *testing.T) {
//	    h := toasttest.New()
//	    ref := h.Service.ShowText("Saved", toast.WithDuration(3*time.Second))
//
//	    h.Clock.Advance(3*time.Second + toast.DefaultExitAnimation)
//
//	    if reason, ok := ref.Reason(); !ok || reason != toast.ReasonTimeout {
//	        t.Fatalf("reason = %q, %v", reason, ok)
//	    }
//	}
package toasttest
