package toast

import (
	"strings"
	"testing"
)

func TestPositionStacking(t *testing.T) {
	for _, p := range AllPositions() {
		want := StackColumn
		if strings.HasPrefix(string(p), "bottom-") {
			want = StackColumnReverse
		}
		if got := p.Stacking(); got != want {
			t.Errorf("%s.Stacking() = %q, want %q", p, got, want)
		}
	}
}

func TestAllPositionsAreValid(t *testing.T) {
	positions := AllPositions()
	if len(positions) != 8 {
		t.Fatalf("len(AllPositions()) = %d, want 8", len(positions))
	}
	seen := map[Position]bool{}
	for _, p := range positions {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
		if seen[p] {
			t.Errorf("%q listed twice", p)
		}
		seen[p] = true
	}
}

func TestParsePosition(t *testing.T) {
	if p, ok := ParsePosition("bottom-full"); !ok || p != PositionBottomFull {
		t.Errorf("ParsePosition(bottom-full) = (%q, %v)", p, ok)
	}
	if _, ok := ParsePosition("center"); ok {
		t.Error("ParsePosition(center) should fail")
	}
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"success", "error", "warning", "info", "default"} {
		if _, ok := ParseType(s); !ok {
			t.Errorf("ParseType(%q) should succeed", s)
		}
	}
	if _, ok := ParseType("fatal"); ok {
		t.Error("ParseType(fatal) should fail")
	}
}

func TestParseInteraction(t *testing.T) {
	valid := []string{"pointer-enter", "pointer-leave", "click", "close", "action", "swipe"}
	for _, s := range valid {
		if in, ok := ParseInteraction(s); !ok || string(in) != s {
			t.Errorf("ParseInteraction(%q) = (%q, %v)", s, in, ok)
		}
	}
	if _, ok := ParseInteraction("hover"); ok {
		t.Error("ParseInteraction(hover) should fail")
	}
}

func TestDismissReasonValid(t *testing.T) {
	for _, r := range []DismissReason{ReasonTimeout, ReasonAction, ReasonManual, ReasonSwipe} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if DismissReason("expired").Valid() {
		t.Error("unknown reason should be invalid")
	}
}

func TestMessage(t *testing.T) {
	if Text("hi").IsTemplate() {
		t.Error("text message should not be a template")
	}
	if !Template(nopRenderable{}, nil).IsTemplate() {
		t.Error("template message should be a template")
	}
}
