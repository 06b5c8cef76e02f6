package config

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/toastkit/internal/errors"
	"github.com/vango-dev/toastkit/pkg/toast"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 5s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ClientBuffer != 64 {
		t.Errorf("Server.ClientBuffer = %d, want 64", cfg.Server.ClientBuffer)
	}
	if cfg.Toast.Duration != toast.DefaultDuration {
		t.Errorf("Toast.Duration = %v, want %v", cfg.Toast.Duration, toast.DefaultDuration)
	}
	if cfg.Toast.ExitAnimation != toast.DefaultExitAnimation {
		t.Errorf("Toast.ExitAnimation = %v", cfg.Toast.ExitAnimation)
	}
	if cfg.Toast.Position != string(toast.DefaultPosition) || !cfg.Toast.Closeable || !cfg.Toast.PauseOnHover {
		t.Errorf("unexpected toast defaults: %+v", cfg.Toast)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if !cfg.Metrics.Enabled || cfg.Tracing.Enabled {
		t.Errorf("unexpected telemetry defaults: %+v %+v", cfg.Metrics, cfg.Tracing)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
  "server": {"address": "127.0.0.1:9000", "allowed_origins": ["https://a.example", "https://b.example"]},
  "toast": {"duration": "2500ms", "position": "bottom-left", "type": "info", "show_icon": true},
  "log": {"level": "debug", "format": "json"}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Toast.Duration != 2500*time.Millisecond {
		t.Errorf("Toast.Duration = %v, want 2.5s", cfg.Toast.Duration)
	}
	if cfg.Toast.Position != "bottom-left" || cfg.Toast.Type != "info" || !cfg.Toast.ShowIcon {
		t.Errorf("unexpected toast section: %+v", cfg.Toast)
	}
	// Untouched keys keep their defaults.
	if cfg.Toast.ExitAnimation != toast.DefaultExitAnimation || cfg.Server.ClientBuffer != 64 {
		t.Errorf("defaults lost: %+v %+v", cfg.Toast, cfg.Server)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
	var te *errors.ToastError
	if !stderrors.As(err, &te) || te.Code != errors.CodeConfigLoad {
		t.Fatalf("error = %v, want T006", err)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path() != "" || cfg.Server.Address != DefaultAddress {
		t.Errorf("unexpected config: path=%q address=%q", cfg.Path(), cfg.Server.Address)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"server": `)

	_, err := Load(path)
	var te *errors.ToastError
	if !stderrors.As(err, &te) || te.Code != errors.CodeConfigLoad {
		t.Fatalf("error = %v, want T006", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"toast": {"position": "top-left"}}`)

	t.Setenv("TOASTD_TOAST__POSITION", "bottom-center")
	t.Setenv("TOASTD_TOAST__DURATION", "0s")
	t.Setenv("TOASTD_SERVER__CLIENT_BUFFER", "128")
	t.Setenv("TOASTD_SERVER__ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TOASTD_LOG__LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Toast.Position != "bottom-center" {
		t.Errorf("env should win over the file: position = %q", cfg.Toast.Position)
	}
	if cfg.Toast.Duration != 0 {
		t.Errorf("Toast.Duration = %v, want 0", cfg.Toast.Duration)
	}
	if cfg.Server.ClientBuffer != 128 {
		t.Errorf("Server.ClientBuffer = %d, want 128", cfg.Server.ClientBuffer)
	}
	if got := cfg.Server.AllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", got)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v, want warn", cfg.SlogLevel())
	}
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]string{
		"TOASTD_SERVER__ADDRESS":       "server.address",
		"TOASTD_TOAST__PAUSE_ON_HOVER": "toast.pause_on_hover",
		"TOASTD_LOG__FORMAT":           "log.format",
	}
	for in, want := range tests {
		if got := envTransform(in); got != want {
			t.Errorf("envTransform(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"bad position", func(c *Config) { c.Toast.Position = "middle" }, "toast.position"},
		{"bad type", func(c *Config) { c.Toast.Type = "fatal" }, "toast.type"},
		{"negative duration", func(c *Config) { c.Toast.Duration = -time.Second }, "toast.duration"},
		{"zero frame interval", func(c *Config) { c.Toast.FrameInterval = 0 }, "toast.frame_interval"},
		{"empty address", func(c *Config) { c.Server.Address = "" }, "server.address"},
		{"buffer too small", func(c *Config) { c.Server.ClientBuffer = 0 }, "server.client_buffer"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"tracing without name", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.TracerName = ""
		}, "tracing.tracer_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			var te *errors.ToastError
			if !stderrors.As(err, &te) {
				t.Fatalf("Validate() = %v, want ToastError", err)
			}
			if te.Code != errors.CodeConfigInvalid {
				t.Errorf("Code = %q, want T007", te.Code)
			}
			if te.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", te.Field, tt.wantField)
			}
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, `{"toast": {"position": "center"}}`)

	_, err := Load(path)
	var te *errors.ToastError
	if !stderrors.As(err, &te) || te.Code != errors.CodeConfigInvalid {
		t.Fatalf("error = %v, want T007", err)
	}
}

func TestToastDefaults(t *testing.T) {
	cfg := New()
	cfg.Toast.Type = "warning"
	cfg.Toast.Position = "bottom-full"
	cfg.Toast.Duration = 3 * time.Second
	cfg.Toast.DismissOnClick = true
	cfg.Toast.PauseOnHover = false

	got := cfg.ToastDefaults()
	if got.Type != toast.TypeWarning || got.Position != toast.PositionBottomFull {
		t.Errorf("type/position = %q/%q", got.Type, got.Position)
	}
	if got.Duration != 3*time.Second || !got.DismissOnClick || got.PauseOnHover {
		t.Errorf("unexpected defaults: %+v", got)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "debug"

	var buf bytes.Buffer
	cfg.NewLogger(&buf).Debug("hello", "k", "v")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	cfg.Log.Format = "text"
	cfg.Log.Level = "error"
	cfg.NewLogger(&buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at error level, got %q", buf.String())
	}
}
