package toast

import (
	"sync"
	"testing"
	"time"
)

func TestRefAfterDismissedDeliversOnce(t *testing.T) {
	r := newRef("toast-1")

	first := r.AfterDismissed()
	second := r.AfterDismissed()

	if !r.markDismissed(ReasonTimeout) {
		t.Fatal("first markDismissed should succeed")
	}

	for i, ch := range []<-chan DismissReason{first, second} {
		reason, ok := <-ch
		if !ok || reason != ReasonTimeout {
			t.Fatalf("subscriber %d: got (%q, %v), want (timeout, true)", i, reason, ok)
		}
		if _, ok := <-ch; ok {
			t.Fatalf("subscriber %d: channel should be closed after one value", i)
		}
	}
}

func TestRefLateSubscriberGetsReason(t *testing.T) {
	r := newRef("toast-1")
	r.markDismissed(ReasonSwipe)

	ch := r.AfterDismissed()
	if reason := <-ch; reason != ReasonSwipe {
		t.Fatalf("late subscriber got %q, want swipe", reason)
	}
	if _, ok := <-ch; ok {
		t.Fatal("late subscriber channel should be closed")
	}
}

func TestRefMarkDismissedTwiceDoesNotReemit(t *testing.T) {
	r := newRef("toast-1")
	ch := r.AfterDismissed()

	r.markDismissed(ReasonManual)
	if r.markDismissed(ReasonTimeout) {
		t.Fatal("second markDismissed should report false")
	}

	if reason := <-ch; reason != ReasonManual {
		t.Fatalf("got %q, want manual", reason)
	}
	if reason, ok := r.Reason(); !ok || reason != ReasonManual {
		t.Fatalf("Reason() = (%q, %v), want (manual, true)", reason, ok)
	}
}

func TestRefDoneClosesOnFinalize(t *testing.T) {
	r := newRef("toast-1")

	select {
	case <-r.Done():
		t.Fatal("Done should not be closed yet")
	default:
	}

	r.markDismissed(ReasonAction)

	select {
	case <-r.Done():
	default:
		t.Fatal("Done should be closed after markDismissed")
	}
	if !r.Dismissed() {
		t.Fatal("Dismissed() should be true")
	}
}

func TestRefDismissNotifiesRequestHandlers(t *testing.T) {
	r := newRef("toast-1")

	calls := 0
	cancel := r.OnDismissRequest(func() { calls++ })

	r.Dismiss()
	r.Dismiss()
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (one per Dismiss before finalization)", calls)
	}

	cancel()
	r.Dismiss()
	if calls != 2 {
		t.Fatalf("calls = %d after cancel, want 2", calls)
	}
}

func TestRefDismissAfterFinalizeIsNoop(t *testing.T) {
	r := newRef("toast-1")

	calls := 0
	r.OnDismissRequest(func() { calls++ })
	r.markDismissed(ReasonTimeout)

	r.Dismiss()
	if calls != 0 {
		t.Fatalf("calls = %d, want 0 after finalization", calls)
	}

	// Registering after finalization returns a usable no-op cancel.
	cancel := r.OnDismissRequest(func() { calls++ })
	cancel()
	r.Dismiss()
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

func TestRefWait(t *testing.T) {
	r := newRef("toast-1")

	if _, ok := r.Wait(10 * time.Millisecond); ok {
		t.Fatal("Wait should time out before finalization")
	}

	go r.markDismissed(ReasonManual)

	reason, ok := r.Wait(time.Second)
	if !ok || reason != ReasonManual {
		t.Fatalf("Wait() = (%q, %v), want (manual, true)", reason, ok)
	}
}

func TestRefConcurrentSubscribers(t *testing.T) {
	r := newRef("toast-1")

	const n = 32
	var wg sync.WaitGroup
	results := make([]DismissReason, n)
	ready := make(chan struct{}, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch := r.AfterDismissed()
			ready <- struct{}{}
			results[i] = <-ch
		}(i)
	}
	for i := 0; i < n; i++ {
		<-ready
	}

	r.markDismissed(ReasonTimeout)
	wg.Wait()

	for i, reason := range results {
		if reason != ReasonTimeout {
			t.Fatalf("subscriber %d got %q", i, reason)
		}
	}
}
