package toasttest

import (
	"io"
	"log/slog"

	"github.com/vango-dev/toastkit/pkg/toast"
)

// Harness bundles a Service with its Clock and Mounter.
type Harness struct {
	Clock   *Clock
	Mounter *Mounter
	Service *toast.Service
}

// New builds a Harness. Service options are passed through; the logger
// discards output unless overridden.
func New(opts ...toast.ServiceOption) *Harness {
	clock := NewClock()
	mounter := NewMounter()

	all := make([]toast.ServiceOption, 0, len(opts)+1)
	all = append(all, toast.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	all = append(all, opts...)

	return &Harness{
		Clock:   clock,
		Mounter: mounter,
		Service: toast.NewService(mounter, clock, all...),
	}
}

// Settle advances the clock by one frame so entering toasts become visible.
func (h *Harness) Settle() {
	h.Clock.Advance(h.Clock.FrameInterval())
}
