package config

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/vango-dev/toastkit/internal/errors"
	"github.com/vango-dev/toastkit/pkg/toast"
)

const (
	// ConfigFileName is the file Load looks for when no path is given.
	ConfigFileName = "toastd.json"

	// EnvPrefix prefixes environment overrides. Nested keys use a double
	// underscore: TOASTD_SERVER__ADDRESS sets server.address.
	EnvPrefix = "TOASTD_"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"
)

// Config is the complete toastd configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Toast   ToastConfig   `koanf:"toast"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`

	// path is the file the config was loaded from, if any.
	path string
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Address         string        `koanf:"address" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`

	// RequestTimeout bounds how long a handler waits for the event loop.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"min=1ms"`

	// AllowedOrigins lists WebSocket origins. Empty means same-origin only.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// ClientBuffer is the per-subscriber patch queue length.
	ClientBuffer int `koanf:"client_buffer" validate:"min=1,max=4096"`
}

// ToastConfig holds the service-wide toast defaults.
type ToastConfig struct {
	Type           string        `koanf:"type" validate:"oneof=success error warning info default"`
	Duration       time.Duration `koanf:"duration" validate:"min=0"`
	Position       string        `koanf:"position" validate:"oneof=top-left top-center top-right top-full bottom-left bottom-center bottom-right bottom-full"`
	Closeable      bool          `koanf:"closeable"`
	ShowIcon       bool          `koanf:"show_icon"`
	DismissOnClick bool          `koanf:"dismiss_on_click"`
	PauseOnHover   bool          `koanf:"pause_on_hover"`
	ExitAnimation  time.Duration `koanf:"exit_animation" validate:"min=0"`
	FrameInterval  time.Duration `koanf:"frame_interval" validate:"min=1ms"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	Path      string `koanf:"path" validate:"omitempty,startswith=/"`
}

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	Enabled    bool   `koanf:"enabled"`
	TracerName string `koanf:"tracer_name" validate:"required_if=Enabled true"`
}

// Defaults returns the default values keyed by their koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"server.address":          DefaultAddress,
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "60s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "5s",
		"server.allowed_origins":  []string{},
		"server.client_buffer":    64,

		"toast.type":             string(toast.TypeDefault),
		"toast.duration":         toast.DefaultDuration.String(),
		"toast.position":         string(toast.DefaultPosition),
		"toast.closeable":        true,
		"toast.show_icon":        false,
		"toast.dismiss_on_click": false,
		"toast.pause_on_hover":   true,
		"toast.exit_animation":   toast.DefaultExitAnimation.String(),
		"toast.frame_interval":   toast.DefaultFrameInterval.String(),

		"log.level":  "info",
		"log.format": "text",

		"metrics.enabled":   true,
		"metrics.namespace": "toastd",
		"metrics.path":      "/metrics",

		"tracing.enabled":     false,
		"tracing.tracer_name": "github.com/vango-dev/toastkit",
	}
}

// New returns a Config holding the defaults.
func New() *Config {
	cfg, err := load(koanfWithDefaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads defaults, then the JSON file at path, then TOASTD_ environment
// variables, and validates the result. An empty path uses toastd.json in the
// working directory when it exists.
func Load(path string) (*Config, error) {
	k := koanfWithDefaults()

	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, errors.New(errors.CodeConfigLoad).
				WithDetail("Failed to parse %s.", path).
				WithSuggestion("Check that the file is valid JSON").
				Wrap(err)
		}
	} else if explicit {
		return nil, errors.New(errors.CodeConfigLoad).
			WithDetail("No config file at %s.", path).
			Wrap(err)
	} else {
		path = ""
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, errors.New(errors.CodeConfigLoad).
			WithDetail("Failed to read %s environment variables.", EnvPrefix).
			Wrap(err)
	}

	cfg, err := load(k)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	cfg.path = path
	return cfg, nil
}

func koanfWithDefaults() *koanf.Koanf {
	k := koanf.New(".")
	for key, value := range Defaults() {
		k.Set(key, value)
	}
	return k
}

func load(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.New(errors.CodeConfigLoad).
			WithDetail("Failed to decode configuration.").
			Wrap(err)
	}
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList expands comma-separated entries, as set through the environment.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// envTransform maps TOASTD_SERVER__ADDRESS to server.address.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and returns a T007 error naming the
// first offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		return errors.New(errors.CodeConfigInvalid).
			WithField(field).
			WithDetail("%s failed the %q check (value %v).", field, fe.Tag(), fe.Value()).
			Wrap(err)
	}
	return errors.New(errors.CodeConfigInvalid).Wrap(err)
}

// Path returns the absolute path of the loaded file, or "" when only
// defaults and environment were used.
func (c *Config) Path() string {
	return c.path
}

// ToastDefaults converts the toast section into the service defaults.
func (c *Config) ToastDefaults() toast.Config {
	cfg := toast.DefaultConfig()
	if t, ok := toast.ParseType(c.Toast.Type); ok {
		cfg.Type = t
	}
	if p, ok := toast.ParsePosition(c.Toast.Position); ok {
		cfg.Position = p
	}
	cfg.Duration = c.Toast.Duration
	cfg.Closeable = c.Toast.Closeable
	cfg.ShowIcon = c.Toast.ShowIcon
	cfg.DismissOnClick = c.Toast.DismissOnClick
	cfg.PauseOnHover = c.Toast.PauseOnHover
	return cfg
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
