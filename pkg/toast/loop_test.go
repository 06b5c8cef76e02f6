package toast

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type nopRenderable struct{}

func (nopRenderable) Render(context.Context, io.Writer) error { return nil }

func startLoop(t *testing.T) *EventLoop {
	t.Helper()
	loop := NewEventLoop(
		WithFrameInterval(time.Millisecond),
		WithLoopLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop
}

func TestEventLoopRunsInOrder(t *testing.T) {
	loop := startLoop(t)

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		loop.Dispatch(func() { got = append(got, i) })
	}
	if err := loop.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if len(got) != 100 {
		t.Fatalf("ran %d callbacks, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("callback %d ran at position %d", v, i)
		}
	}
}

func TestEventLoopDispatchFromLoopDoesNotDeadlock(t *testing.T) {
	loop := startLoop(t)

	done := make(chan struct{})
	loop.Dispatch(func() {
		loop.Dispatch(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested dispatch never ran")
	}
}

func TestEventLoopAfterFuncCancel(t *testing.T) {
	loop := startLoop(t)

	var fired atomic.Int32
	cancel := loop.AfterFunc(20*time.Millisecond, func() { fired.Add(1) })
	cancel()
	cancel()

	done := make(chan struct{})
	loop.AfterFunc(40*time.Millisecond, func() { close(done) })
	<-done

	if fired.Load() != 0 {
		t.Fatal("cancelled timer fired")
	}
}

func TestEventLoopAfterFuncFires(t *testing.T) {
	loop := startLoop(t)

	done := make(chan time.Time, 1)
	start := time.Now()
	loop.AfterFunc(10*time.Millisecond, func() { done <- time.Now() })

	select {
	case at := <-done:
		if at.Sub(start) < 10*time.Millisecond {
			t.Fatalf("timer fired early after %v", at.Sub(start))
		}
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestEventLoopRecoversPanics(t *testing.T) {
	loop := startLoop(t)

	loop.Dispatch(func() { panic("boom") })

	ran := false
	if err := loop.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !ran {
		t.Fatal("loop stopped processing after a panic")
	}
	if got := loop.Stats().Panics; got != 1 {
		t.Fatalf("Panics = %d, want 1", got)
	}
}

func TestEventLoopDoAfterStop(t *testing.T) {
	loop := NewEventLoop()
	loop.Stop()

	err := loop.Do(context.Background(), func() {})
	if !errors.Is(err, ErrLoopStopped) {
		t.Fatalf("Do() error = %v, want ErrLoopStopped", err)
	}
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() after Stop should return nil, got %v", err)
	}
}

func TestEventLoopRunTwice(t *testing.T) {
	loop := startLoop(t)
	// Make sure the first Run is active.
	if err := loop.Do(context.Background(), func() {}); err != nil {
		t.Fatal(err)
	}
	if err := loop.Run(context.Background()); err == nil {
		t.Fatal("second Run should fail")
	}
}

func TestEventLoopDoRespectsContext(t *testing.T) {
	loop := NewEventLoop()
	// Not running: Do can only finish through ctx.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := loop.Do(ctx, func() {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Do() error = %v, want deadline exceeded", err)
	}
}

func TestEventLoopServiceEndToEnd(t *testing.T) {
	loop := startLoop(t)
	mounter := &countingMounter{}

	svc := NewService(mounter, loop,
		WithExitAnimation(5*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	var ref *Ref
	err := loop.Do(context.Background(), func() {
		ref = svc.ShowText("hello", WithDuration(20*time.Millisecond))
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	reason, ok := ref.Wait(2 * time.Second)
	if !ok || reason != ReasonTimeout {
		t.Fatalf("Wait() = (%q, %v), want (timeout, true)", reason, ok)
	}

	var active, containers int
	_ = loop.Do(context.Background(), func() {
		active = svc.ActiveCount()
		containers = svc.ContainerCount()
	})
	if active != 0 || containers != 0 {
		t.Fatalf("active=%d containers=%d, want 0/0", active, containers)
	}
	if mounter.mounts.Load() != 1 || mounter.unmounts.Load() != 1 {
		t.Fatalf("mounts=%d unmounts=%d, want 1/1", mounter.mounts.Load(), mounter.unmounts.Load())
	}
}

func TestEventLoopRefDismissFromOtherGoroutine(t *testing.T) {
	loop := startLoop(t)
	svc := NewService(&countingMounter{}, loop,
		WithExitAnimation(time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	var ref *Ref
	_ = loop.Do(context.Background(), func() {
		ref = svc.ShowText("persistent", WithDuration(0))
	})

	go ref.Dismiss()

	reason, ok := ref.Wait(2 * time.Second)
	if !ok || reason != ReasonManual {
		t.Fatalf("Wait() = (%q, %v), want (manual, true)", reason, ok)
	}
}

type countingMounter struct {
	mounts   atomic.Int32
	unmounts atomic.Int32
}

type countingSurface struct{ id string }

func (s *countingSurface) ID() string           { return s.id }
func (s *countingSurface) Render(ContainerView) {}

func (m *countingMounter) Mount(req MountRequest) Surface {
	m.mounts.Add(1)
	return &countingSurface{id: string(req.Position)}
}

func (m *countingMounter) Unmount(Surface) {
	m.unmounts.Add(1)
}
