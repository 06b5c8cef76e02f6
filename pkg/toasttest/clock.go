package toasttest

import (
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/toastkit/pkg/toast"
)

// Epoch is the time a new Clock starts at.
var Epoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// Clock is a deterministic toast.Scheduler. Time only moves when Advance is
// called, and every callback runs on the calling goroutine.
//
// Dispatched callbacks run immediately unless the clock is already running a
// callback, in which case they are queued and run right after it, matching
// the run-to-completion behavior of toast.EventLoop.
type Clock struct {
	mu            sync.Mutex
	now           time.Time
	nextID        uint64
	timers        []*timer
	queue         []func()
	running       bool
	frameInterval time.Duration
}

type timer struct {
	id        uint64
	due       time.Time
	fn        func()
	cancelled bool
}

// NewClock returns a Clock set to Epoch.
func NewClock() *Clock {
	return &Clock{
		now:           Epoch,
		frameInterval: toast.DefaultFrameInterval,
	}
}

// SetFrameInterval changes the delay of Frame callbacks.
func (c *Clock) SetFrameInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameInterval = d
}

// FrameInterval returns the delay of Frame callbacks.
func (c *Clock) FrameInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameInterval
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (c *Clock) AfterFunc(d time.Duration, fn func()) toast.Cancel {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := &timer{id: c.nextID, due: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.cancelled = true
		c.removeTimer(t)
	}
}

// Frame schedules fn one frame interval ahead.
func (c *Clock) Frame(fn func()) toast.Cancel {
	c.mu.Lock()
	d := c.frameInterval
	c.mu.Unlock()
	return c.AfterFunc(d, fn)
}

// Dispatch runs fn now, or after the currently running callback.
func (c *Clock) Dispatch(fn func()) {
	c.mu.Lock()
	c.queue = append(c.queue, fn)
	busy := c.running
	c.mu.Unlock()

	if !busy {
		c.drain()
	}
}

// Advance moves the clock forward by d, firing due timers in order.
func (c *Clock) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDue(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.removeTimer(t)
		if t.due.After(c.now) {
			c.now = t.due
		}
		c.mu.Unlock()

		c.Dispatch(func() {
			c.mu.Lock()
			cancelled := t.cancelled
			c.mu.Unlock()
			if !cancelled {
				t.fn()
			}
		})
	}
}

// Run advances the clock until no timers remain or limit is reached.
func (c *Clock) Run(limit time.Duration) {
	deadline := c.Now().Add(limit)
	for {
		c.mu.Lock()
		t := c.nextDue(deadline)
		c.mu.Unlock()
		if t == nil {
			return
		}
		c.Advance(t.due.Sub(c.Now()))
	}
}

// Pending returns the number of scheduled timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// NextDue returns how far away the earliest timer is.
func (c *Clock) NextDue() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return 0, false
	}
	c.sortTimers()
	return c.timers[0].due.Sub(c.now), true
}

func (c *Clock) drain() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.running = false
			c.mu.Unlock()
			return
		}
		fn := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest timer due at or before limit. Caller holds mu.
func (c *Clock) nextDue(limit time.Time) *timer {
	if len(c.timers) == 0 {
		return nil
	}
	c.sortTimers()
	if t := c.timers[0]; !t.due.After(limit) {
		return t
	}
	return nil
}

func (c *Clock) sortTimers() {
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].due.Equal(c.timers[j].due) {
			return c.timers[i].id < c.timers[j].id
		}
		return c.timers[i].due.Before(c.timers[j].due)
	})
}

func (c *Clock) removeTimer(t *timer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
