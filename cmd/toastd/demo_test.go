package main

import (
	"context"
	"testing"
	"time"

	"github.com/vango-dev/toastkit/internal/config"
)

func TestDemoScriptNotesAreOrdered(t *testing.T) {
	steps := demoScript(func(d time.Duration) time.Duration { return d })
	for i := 1; i < len(steps); i++ {
		if steps[i].At < steps[i-1].At {
			t.Errorf("step %d at %v runs before step %d at %v", i, steps[i].At, i-1, steps[i-1].At)
		}
	}
}

func TestRunDemoFast(t *testing.T) {
	cfg := config.New()
	cfg.Toast.FrameInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := runDemo(ctx, cfg, 20); err != nil {
		t.Fatalf("runDemo: %v", err)
	}
}

func TestSequentialIDs(t *testing.T) {
	gen := sequentialIDs()
	if a, b := gen(), gen(); a != "toast-1" || b != "toast-2" {
		t.Errorf("ids = %q, %q", a, b)
	}
}

func TestExplainCode(t *testing.T) {
	if err := explainCode("T001"); err != nil {
		t.Errorf("explainCode(T001) = %v", err)
	}
	if err := explainCode("T999"); err == nil {
		t.Error("explainCode(T999) should fail")
	}
}
