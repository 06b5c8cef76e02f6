package toast

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval approximates one rendering frame at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// ErrLoopStopped is returned by EventLoop.Do when the loop is not running.
var ErrLoopStopped = errors.New("toast: event loop stopped")

// EventLoop is the production Scheduler: a single goroutine that runs
// dispatched callbacks one at a time. Timers are backed by time.AfterFunc and
// hand their callback to the loop instead of running it themselves.
type EventLoop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	frameInterval time.Duration
	logger        *slog.Logger

	executed atomic.Uint64
	panics   atomic.Uint64
}

// LoopOption configures an EventLoop.
type LoopOption func(*EventLoop)

// WithFrameInterval sets the delay used for Frame callbacks.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *EventLoop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithLoopLogger sets the logger used for recovered panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *EventLoop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewEventLoop creates an EventLoop. Call Run to start processing.
func NewEventLoop(opts ...LoopOption) *EventLoop {
	l := &EventLoop{
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
		frameInterval: DefaultFrameInterval,
		logger:        slog.Default().With("component", "toast-loop"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes dispatched callbacks until ctx is cancelled or Stop is
// called. It returns ctx.Err() or nil.
func (l *EventLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("toast: event loop already running")
	}
	defer l.Stop()

	for {
		select {
		case <-l.wake:
			for _, fn := range l.drain() {
				l.execute(fn)
			}

		case <-ctx.Done():
			return ctx.Err()

		case <-l.done:
			return nil
		}
	}
}

// Stop terminates the loop. Pending callbacks are discarded.
func (l *EventLoop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Done returns a channel that is closed when the loop stops.
func (l *EventLoop) Done() <-chan struct{} {
	return l.done
}

// Dispatch queues fn to run on the loop. It never blocks, so it is safe to
// call from the loop itself. Callbacks dispatched after Stop are discarded.
func (l *EventLoop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.done:
		return
	default:
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
		// Loop already signalled.
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine.
func (l *EventLoop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Dispatch(func() {
		defer close(finished)
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Now returns the wall clock time.
func (l *EventLoop) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn on the loop after d.
func (l *EventLoop) AfterFunc(d time.Duration, fn func()) Cancel {
	var cancelled atomic.Bool
	timer := time.AfterFunc(d, func() {
		l.Dispatch(func() {
			// Checked on the loop: a Cancel that ran before us wins even if
			// the timer had already expired.
			if cancelled.CompareAndSwap(false, true) {
				fn()
			}
		})
	})

	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}

// Frame runs fn on the loop after one frame interval.
func (l *EventLoop) Frame(fn func()) Cancel {
	return l.AfterFunc(l.frameInterval, fn)
}

// LoopStats reports loop counters.
type LoopStats struct {
	Executed uint64
	Panics   uint64
	Queued   int
}

// Stats returns a snapshot of the loop counters.
func (l *EventLoop) Stats() LoopStats {
	l.mu.Lock()
	queued := len(l.queue)
	l.mu.Unlock()

	return LoopStats{
		Executed: l.executed.Load(),
		Panics:   l.panics.Load(),
		Queued:   queued,
	}
}

func (l *EventLoop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	q := l.queue
	l.queue = nil
	return q
}

// execute runs one callback, recovering panics so a misbehaving callback
// cannot take the loop down.
func (l *EventLoop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.panics.Add(1)
			l.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	l.executed.Add(1)
	fn()
}
