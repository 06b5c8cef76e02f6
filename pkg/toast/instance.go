package toast

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Instance is one shown toast. It is created by Service.Show and must be
// treated as read-only; its only mutable part is the Ref.
type Instance struct {
	ID        string
	Message   Message
	Config    Config
	Ref       *Ref
	CreatedAt time.Time
}

// IsTemplate reports whether the message is a Renderable.
func (i *Instance) IsTemplate() bool {
	return i.Message.IsTemplate()
}

// IDGenerator produces toast IDs. IDs must be unique for the lifetime of the
// process.
type IDGenerator func() string

var idCounter atomic.Uint64

// NewID returns a process-unique toast ID built from the wall clock and a
// monotonically increasing counter, so calls within the same millisecond
// never collide.
func NewID() string {
	n := idCounter.Add(1)
	return "toast-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.FormatUint(n, 10)
}
