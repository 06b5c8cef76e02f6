package toast

import (
	"sync"
	"time"
)

// Ref is the caller's handle to one toast.
//
// It carries two notification streams: dismiss requests flowing in (Dismiss)
// and the final dismissal flowing out (AfterDismissed). Once the owning
// service finalizes the toast, both streams are closed and Dismiss becomes a
// no-op. Ref is safe for concurrent use.
type Ref struct {
	id string

	mu       sync.Mutex
	closed   bool
	reason   DismissReason
	done     chan struct{}
	waiters  []chan DismissReason
	requests []requestHandler
	nextReq  uint64
}

type requestHandler struct {
	id uint64
	fn func()
}

func newRef(id string) *Ref {
	return &Ref{
		id:   id,
		done: make(chan struct{}),
	}
}

// ID returns the toast ID.
func (r *Ref) ID() string {
	return r.id
}

// Dismiss asks the toast to close. The toast leaves through its normal exit
// path and is reported with ReasonManual. Calling Dismiss after the toast is
// gone does nothing.
func (r *Ref) Dismiss() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	handlers := make([]func(), len(r.requests))
	for i, h := range r.requests {
		handlers[i] = h.fn
	}
	r.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// OnDismissRequest registers fn to run on every Dismiss call made before the
// toast is finalized. fn runs on the goroutine that called Dismiss.
// The returned function unregisters fn.
func (r *Ref) OnDismissRequest(fn func()) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || fn == nil {
		return func() {}
	}

	r.nextReq++
	id := r.nextReq
	r.requests = append(r.requests, requestHandler{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, h := range r.requests {
			if h.id == id {
				r.requests = append(r.requests[:i], r.requests[i+1:]...)
				return
			}
		}
	}
}

// AfterDismissed returns a channel that receives the dismiss reason exactly
// once and is then closed. Every call returns a new channel, so any number of
// subscribers observe the same reason. Subscribing after the toast is gone
// still delivers the reason.
func (r *Ref) AfterDismissed() <-chan DismissReason {
	ch := make(chan DismissReason, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		ch <- r.reason
		close(ch)
		return ch
	}
	r.waiters = append(r.waiters, ch)
	return ch
}

// Done returns a channel that is closed once the toast is finalized.
func (r *Ref) Done() <-chan struct{} {
	return r.done
}

// Reason returns the dismiss reason and whether the toast has been finalized.
func (r *Ref) Reason() (DismissReason, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason, r.closed
}

// Dismissed reports whether the toast has been finalized.
func (r *Ref) Dismissed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Wait blocks until the toast is finalized or timeout elapses.
// It returns false on timeout.
func (r *Ref) Wait(timeout time.Duration) (DismissReason, bool) {
	select {
	case reason := <-r.AfterDismissed():
		return reason, true
	case <-time.After(timeout):
		return "", false
	}
}

// markDismissed finalizes the ref. Only the first call has any effect.
func (r *Ref) markDismissed(reason DismissReason) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.closed = true
	r.reason = reason
	waiters := r.waiters
	r.waiters = nil
	r.requests = nil
	close(r.done)
	r.mu.Unlock()

	// Buffered with capacity 1, never blocks.
	for _, ch := range waiters {
		ch <- reason
		close(ch)
	}
	return true
}
