package toast

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Type != TypeDefault {
		t.Errorf("Type = %q, want default", cfg.Type)
	}
	if cfg.Duration != 5*time.Second {
		t.Errorf("Duration = %v, want 5s", cfg.Duration)
	}
	if cfg.Position != PositionTopRight {
		t.Errorf("Position = %q, want top-right", cfg.Position)
	}
	if !cfg.Closeable || cfg.ShowIcon || cfg.DismissOnClick || !cfg.PauseOnHover {
		t.Errorf("unexpected flags: %+v", cfg)
	}
	if cfg.Action != nil || cfg.Icon != "" || cfg.CustomClass != "" || cfg.DataTest != "" || cfg.Data != nil {
		t.Errorf("pass-through fields should be empty by default: %+v", cfg)
	}
}

func TestResolveConfigPersistentForcesCloseable(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"duration only", []Option{WithDuration(0)}},
		{"explicit closeable false", []Option{WithDuration(0), WithCloseable(false)}},
		{"closeable false first", []Option{WithCloseable(false), WithDuration(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := resolveConfig(DefaultConfig(), tt.opts)
			if !cfg.Closeable {
				t.Fatal("duration 0 must resolve to closeable")
			}
			if !cfg.Persistent() {
				t.Fatal("Persistent() should be true")
			}
		})
	}
}

func TestResolveConfigKeepsCloseableFalseWhenTimed(t *testing.T) {
	cfg := resolveConfig(DefaultConfig(), []Option{WithCloseable(false)})
	if cfg.Closeable {
		t.Fatal("closeable=false should be kept for a timed toast")
	}
}

func TestResolveConfigNegativeDurationIsUntouched(t *testing.T) {
	cfg := resolveConfig(DefaultConfig(), []Option{WithDuration(-time.Second), WithCloseable(false)})
	if cfg.Duration != -time.Second {
		t.Fatalf("Duration = %v, want -1s", cfg.Duration)
	}
	if cfg.Closeable {
		t.Fatal("negative durations do not trigger the persistent override")
	}
}

func TestResolveConfigPassThrough(t *testing.T) {
	called := false
	payload := map[string]int{"n": 1}

	cfg := resolveConfig(DefaultConfig(), []Option{
		WithAction("Undo", func() { called = true }),
		WithIcon("★"),
		WithCustomClass("my-toast"),
		WithDataTest("saved-toast"),
		WithData(payload),
	})

	if cfg.Action == nil || cfg.Action.Label != "Undo" {
		t.Fatalf("Action = %+v", cfg.Action)
	}
	cfg.Action.Callback()
	if !called {
		t.Error("action callback should be passed through")
	}
	if cfg.Icon != "★" || cfg.CustomClass != "my-toast" || cfg.DataTest != "saved-toast" {
		t.Errorf("unexpected pass-through values: %+v", cfg)
	}
	if got, ok := cfg.Data.(map[string]int); !ok || got["n"] != 1 {
		t.Errorf("Data = %#v", cfg.Data)
	}
	if cfg.ShowIcon {
		t.Error("WithIcon must not imply ShowIcon")
	}
}

func TestResolveConfigInvalidPositionFallsBack(t *testing.T) {
	base := DefaultConfig()
	base.Position = PositionBottomCenter

	cfg := resolveConfig(base, []Option{WithPosition("middle")})
	if cfg.Position != PositionBottomCenter {
		t.Fatalf("Position = %q, want base position", cfg.Position)
	}

	base.Position = ""
	cfg = resolveConfig(base, []Option{WithPosition("")})
	if cfg.Position != DefaultPosition {
		t.Fatalf("Position = %q, want %q", cfg.Position, DefaultPosition)
	}
}

func TestResolveConfigIgnoresNilOptions(t *testing.T) {
	cfg := resolveConfig(DefaultConfig(), []Option{nil, WithType(TypeInfo), nil})
	if cfg.Type != TypeInfo {
		t.Fatalf("Type = %q, want info", cfg.Type)
	}
}

func TestWithForcedTypeDoesNotMutateCallerSlice(t *testing.T) {
	opts := make([]Option, 1, 4)
	opts[0] = WithType(TypeError)

	forced := withForcedType(opts, TypeSuccess)

	cfg := resolveConfig(DefaultConfig(), forced)
	if cfg.Type != TypeSuccess {
		t.Fatalf("Type = %q, want success", cfg.Type)
	}

	// Appending to the caller's slice must not see the forced option.
	opts = append(opts, WithDuration(time.Second))
	cfg = resolveConfig(DefaultConfig(), opts)
	if cfg.Type != TypeError {
		t.Fatalf("caller slice was modified: Type = %q", cfg.Type)
	}
}

func TestWithConfigReplacesEverything(t *testing.T) {
	custom := Config{
		Type:         TypeWarning,
		Duration:     2 * time.Second,
		Position:     PositionTopLeft,
		PauseOnHover: false,
	}
	cfg := resolveConfig(DefaultConfig(), []Option{WithConfig(custom), WithShowIcon(true)})

	if cfg.Type != TypeWarning || cfg.Duration != 2*time.Second || cfg.Position != PositionTopLeft {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Closeable {
		t.Error("Closeable should come from the replacing config")
	}
	if !cfg.ShowIcon {
		t.Error("later options should still apply")
	}
}
