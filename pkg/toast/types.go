package toast

// Type represents the toast notification type.
// It only affects the icon and styling of a toast.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
	TypeDefault Type = "default"
)

// Valid reports whether t is one of the known toast types.
func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo, TypeDefault:
		return true
	}
	return false
}

// ParseType converts a string to a Type.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	return t, t.Valid()
}

// Position is the screen anchor a toast container is rendered at.
type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopFull      Position = "top-full"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomFull   Position = "bottom-full"
)

// AllPositions returns every position in canonical order.
func AllPositions() []Position {
	return []Position{
		PositionTopRight,
		PositionTopLeft,
		PositionTopCenter,
		PositionTopFull,
		PositionBottomRight,
		PositionBottomLeft,
		PositionBottomCenter,
		PositionBottomFull,
	}
}

// Valid reports whether p is one of the eight known positions.
func (p Position) Valid() bool {
	switch p {
	case PositionTopRight, PositionTopLeft, PositionTopCenter, PositionTopFull,
		PositionBottomRight, PositionBottomLeft, PositionBottomCenter, PositionBottomFull:
		return true
	}
	return false
}

// ParsePosition converts a string to a Position.
func ParsePosition(s string) (Position, bool) {
	p := Position(s)
	return p, p.Valid()
}

// IsBottom reports whether p is anchored to the bottom edge of the screen.
func (p Position) IsBottom() bool {
	switch p {
	case PositionBottomRight, PositionBottomLeft, PositionBottomCenter, PositionBottomFull:
		return true
	}
	return false
}

// Stacking is the visual direction toasts are stacked in.
type Stacking string

const (
	// StackColumn renders the list top to bottom, oldest first.
	StackColumn Stacking = "column"

	// StackColumnReverse renders the list bottom to top so the newest toast
	// sits next to the screen edge.
	StackColumnReverse Stacking = "column-reverse"
)

// Stacking returns the stacking direction for containers at p.
// The list order is the same for both directions; only the rendering flips.
func (p Position) Stacking() Stacking {
	if p.IsBottom() {
		return StackColumnReverse
	}
	return StackColumn
}

// DismissReason records why a toast's visible lifetime ended.
type DismissReason string

const (
	ReasonTimeout DismissReason = "timeout"
	ReasonAction  DismissReason = "action"
	ReasonManual  DismissReason = "manual"
	ReasonSwipe   DismissReason = "swipe"
)

// Valid reports whether r is a known dismiss reason.
func (r DismissReason) Valid() bool {
	switch r {
	case ReasonTimeout, ReasonAction, ReasonManual, ReasonSwipe:
		return true
	}
	return false
}

// Interaction is a user interaction with a rendered toast, reported by the host.
type Interaction string

const (
	InteractPointerEnter Interaction = "pointer-enter"
	InteractPointerLeave Interaction = "pointer-leave"
	InteractClick        Interaction = "click"
	InteractClose        Interaction = "close"
	InteractAction       Interaction = "action"
	InteractSwipe        Interaction = "swipe"
)

// ParseInteraction converts a string to an Interaction.
func ParseInteraction(s string) (Interaction, bool) {
	switch i := Interaction(s); i {
	case InteractPointerEnter, InteractPointerLeave, InteractClick,
		InteractClose, InteractAction, InteractSwipe:
		return i, true
	}
	return "", false
}

// Phase is the lifecycle phase of a single toast.
type Phase string

const (
	PhaseEntering Phase = "entering"
	PhaseVisible  Phase = "visible"
	PhasePaused   Phase = "paused"
	PhaseRemoving Phase = "removing"
	PhaseGone     Phase = "gone"
)
