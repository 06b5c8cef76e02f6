package toast

import "time"

const (
	// DefaultDuration is how long a toast stays visible unless configured otherwise.
	DefaultDuration = 5 * time.Second

	// DefaultPosition is where toasts appear unless configured otherwise.
	DefaultPosition = PositionTopRight

	// DefaultExitAnimation is the fixed exit animation delay between a toast
	// starting to leave and its dismissal being reported.
	DefaultExitAnimation = 300 * time.Millisecond
)

// Action is an optional button rendered inside a toast.
// Pressing it always dismisses the toast with ReasonAction.
type Action struct {
	Label    string
	Callback func()
}

// Config is the fully resolved configuration of one toast.
type Config struct {
	Type     Type
	Duration time.Duration
	Position Position

	// Closeable renders a close button. Forced to true when Duration is 0.
	Closeable bool

	ShowIcon       bool
	DismissOnClick bool
	PauseOnHover   bool

	// The fields below are passed through unmodified and never defaulted.
	Action      *Action
	Icon        string
	CustomClass string
	DataTest    string
	Data        any
}

// DefaultConfig returns the configuration every toast starts from.
func DefaultConfig() Config {
	return Config{
		Type:           TypeDefault,
		Duration:       DefaultDuration,
		Position:       DefaultPosition,
		Closeable:      true,
		ShowIcon:       false,
		DismissOnClick: false,
		PauseOnHover:   true,
	}
}

// Persistent reports whether the toast never dismisses itself.
func (c Config) Persistent() bool {
	return c.Duration == 0
}

// Option configures a single toast.
type Option func(*Config)

// WithType sets the toast type.
func WithType(t Type) Option {
	return func(c *Config) {
		c.Type = t
	}
}

// WithDuration sets how long the toast stays visible.
// Zero makes the toast persistent. Negative values are passed through as-is
// and never start a countdown.
func WithDuration(d time.Duration) Option {
	return func(c *Config) {
		c.Duration = d
	}
}

// WithPosition sets the screen position. Unknown positions fall back to the
// service default.
func WithPosition(p Position) Option {
	return func(c *Config) {
		c.Position = p
	}
}

// WithCloseable controls whether a close button is rendered.
func WithCloseable(closeable bool) Option {
	return func(c *Config) {
		c.Closeable = closeable
	}
}

// WithShowIcon controls whether the type icon is rendered.
func WithShowIcon(show bool) Option {
	return func(c *Config) {
		c.ShowIcon = show
	}
}

// WithIcon sets a custom icon. It implies nothing about ShowIcon.
func WithIcon(icon string) Option {
	return func(c *Config) {
		c.Icon = icon
	}
}

// WithDismissOnClick dismisses the toast when its body is clicked.
func WithDismissOnClick(dismiss bool) Option {
	return func(c *Config) {
		c.DismissOnClick = dismiss
	}
}

// WithPauseOnHover pauses the countdown while the pointer is over the toast.
func WithPauseOnHover(pause bool) Option {
	return func(c *Config) {
		c.PauseOnHover = pause
	}
}

// WithAction adds an action button. callback may be nil.
func WithAction(label string, callback func()) Option {
	return func(c *Config) {
		c.Action = &Action{Label: label, Callback: callback}
	}
}

// WithCustomClass adds a CSS class to the rendered toast.
func WithCustomClass(class string) Option {
	return func(c *Config) {
		c.CustomClass = class
	}
}

// WithDataTest sets the data-test attribute of the rendered toast.
func WithDataTest(value string) Option {
	return func(c *Config) {
		c.DataTest = value
	}
}

// WithData attaches an arbitrary payload for renderers and observers.
func WithData(data any) Option {
	return func(c *Config) {
		c.Data = data
	}
}

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// resolveConfig applies opts over base and enforces the config invariants.
func resolveConfig(base Config, opts []Option) Config {
	cfg := base
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !cfg.Position.Valid() {
		cfg.Position = base.Position
		if !cfg.Position.Valid() {
			cfg.Position = DefaultPosition
		}
	}

	if !cfg.Type.Valid() {
		cfg.Type = base.Type
		if !cfg.Type.Valid() {
			cfg.Type = TypeDefault
		}
	}

	// A persistent toast must always have a manual escape path.
	if cfg.Duration == 0 {
		cfg.Closeable = true
	}

	return cfg
}

// withForcedType returns opts with a trailing WithType(t), without touching
// the caller's slice.
func withForcedType(opts []Option, t Type) []Option {
	out := make([]Option, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, WithType(t))
}
