package toastui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/vango-dev/toastkit/pkg/toast"
)

func instance(id string, msg toast.Message, cfg toast.Config) *toast.Instance {
	return &toast.Instance{ID: id, Message: msg, Config: cfg}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	html, err := RenderString(context.Background(), c)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	return html
}

func TestToastEscapesText(t *testing.T) {
	inst := instance("toast-1", toast.Text(`<script>alert("x")</script>`), toast.DefaultConfig())
	html := render(t, Toast(toast.ToastView{Instance: inst, Phase: toast.PhaseVisible}))

	if strings.Contains(html, "<script>") {
		t.Fatalf("text was not escaped: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("escaped text missing: %s", html)
	}
}

func TestToastMarkup(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(*toast.Config)
		phase   toast.Phase
		want    []string
		notWant []string
	}{
		{
			name:    "default",
			cfg:     func(*toast.Config) {},
			phase:   toast.PhaseEntering,
			want:    []string{`id="toast-1"`, `class="toast toast--default toast--entering"`, `role="status"`, `data-toast-action="close"`, `data-pause-on-hover`},
			notWant: []string{`toast__icon`, `toast__action`, `data-test=`, `data-dismiss-on-click`},
		},
		{
			name: "error with icon",
			cfg: func(c *toast.Config) {
				c.Type = toast.TypeError
				c.ShowIcon = true
			},
			phase: toast.PhaseVisible,
			want:  []string{`role="alert"`, `toast--error`, `toast--visible`, `<span class="toast__icon" aria-hidden="true">✕</span>`},
		},
		{
			name: "custom icon and class",
			cfg: func(c *toast.Config) {
				c.ShowIcon = true
				c.Icon = "★"
				c.CustomClass = "brand"
				c.DataTest = "saved"
			},
			phase: toast.PhasePaused,
			want:  []string{`>★</span>`, `toast--paused brand"`, `data-test="saved"`},
		},
		{
			name: "attribute values escaped",
			cfg: func(c *toast.Config) {
				c.DataTest = `x" onclick="steal()`
			},
			phase:   toast.PhaseVisible,
			want:    []string{`data-test="x&#34; onclick=&#34;steal()"`},
			notWant: []string{`onclick="steal()"`},
		},
		{
			name: "icon hidden when disabled",
			cfg: func(c *toast.Config) {
				c.Icon = "★"
			},
			phase:   toast.PhaseVisible,
			notWant: []string{`★`},
		},
		{
			name: "action without close",
			cfg: func(c *toast.Config) {
				c.Closeable = false
				c.DismissOnClick = true
				c.Action = &toast.Action{Label: "Undo <all>"}
			},
			phase:   toast.PhaseRemoving,
			want:    []string{`data-toast-action="action">Undo &lt;all&gt;</button>`, `data-dismiss-on-click`, `toast--removing`},
			notWant: []string{`data-toast-action="close"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := toast.DefaultConfig()
			tt.cfg(&cfg)
			inst := instance("toast-1", toast.Text("hello"), cfg)

			html := render(t, Toast(toast.ToastView{Instance: inst, Phase: tt.phase}))
			for _, want := range tt.want {
				if !strings.Contains(html, want) {
					t.Errorf("missing %q in %s", want, html)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(html, nw) {
					t.Errorf("unexpected %q in %s", nw, html)
				}
			}
		})
	}
}

func TestTemplateMessageSeesContextData(t *testing.T) {
	component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, ok := MessageData(ctx)
		if !ok {
			return errors.New("no message data")
		}
		_, err := fmt.Fprintf(w, "<b>%s</b> uploaded", templ.EscapeString(data.(string)))
		return err
	})

	inst := instance("toast-1", toast.Template(component, "report.pdf"), toast.DefaultConfig())
	html := render(t, Toast(toast.ToastView{Instance: inst, Phase: toast.PhaseVisible}))

	if !strings.Contains(html, `<div class="toast__message"><b>report.pdf</b> uploaded</div>`) {
		t.Fatalf("template output missing: %s", html)
	}
}

func TestTemplateErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	component := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })

	inst := instance("toast-1", toast.Template(component, nil), toast.DefaultConfig())
	_, err := RenderString(context.Background(), Toast(toast.ToastView{Instance: inst}))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
}

func TestMessageDataAbsent(t *testing.T) {
	if _, ok := MessageData(context.Background()); ok {
		t.Fatal("MessageData should report false without data")
	}
}

func TestContainer(t *testing.T) {
	view := toast.ContainerView{
		SurfaceID: "surface-1",
		Position:  toast.PositionBottomLeft,
		Stacking:  toast.PositionBottomLeft.Stacking(),
		Toasts: []toast.ToastView{
			{Instance: instance("a", toast.Text("first"), toast.DefaultConfig()), Phase: toast.PhaseVisible},
			{Instance: instance("b", toast.Text("second"), toast.DefaultConfig()), Phase: toast.PhaseEntering},
		},
	}

	html := render(t, Container(view))

	if !strings.HasPrefix(html, `<div id="surface-1" class="toast-container toast-container--bottom-left" data-position="bottom-left" style="flex-direction: column-reverse"`) {
		t.Fatalf("unexpected container open tag: %s", html)
	}
	if !strings.HasSuffix(html, `</div>`) {
		t.Fatalf("container not closed: %s", html)
	}
	first, second := strings.Index(html, `id="a"`), strings.Index(html, `id="b"`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("toasts must render in list order: %s", html)
	}
}

func TestEmptyContainer(t *testing.T) {
	html := render(t, Container(toast.ContainerView{
		SurfaceID: "s",
		Position:  toast.PositionTopRight,
		Stacking:  toast.StackColumn,
	}))
	if strings.Contains(html, "toast--") {
		t.Fatalf("empty container rendered toasts: %s", html)
	}
	if !strings.Contains(html, "flex-direction: column\"") {
		t.Fatalf("expected column stacking: %s", html)
	}
}

func TestDefaultIcon(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range []toast.Type{toast.TypeSuccess, toast.TypeError, toast.TypeWarning, toast.TypeInfo, toast.TypeDefault} {
		icon := DefaultIcon(typ)
		if icon == "" || seen[icon] {
			t.Errorf("DefaultIcon(%q) = %q, want a distinct glyph", typ, icon)
		}
		seen[icon] = true
	}
}

func TestStylesheet(t *testing.T) {
	html := render(t, Stylesheet(250*time.Millisecond))
	if !strings.HasPrefix(html, "<style>:root{--toast-exit:250ms}") {
		t.Fatalf("unexpected stylesheet head: %.60s", html)
	}
	for _, p := range toast.AllPositions() {
		if !strings.Contains(html, ".toast-container--"+string(p)+"{") {
			t.Errorf("no rule for %s", p)
		}
	}

	if html := render(t, Stylesheet(-time.Second)); !strings.Contains(html, "--toast-exit:0ms") {
		t.Errorf("negative exit should clamp to 0: %.60s", html)
	}
}

func TestPage(t *testing.T) {
	t.Run("websocket", func(t *testing.T) {
		html := render(t, Page(PageOptions{Title: "Demo <1>", ExitAnimation: time.Second}))
		for _, want := range []string{
			"<title>Demo &lt;1&gt;</title>",
			`data-toast-transport="ws"`,
			"--toast-exit:1000ms",
			"new WebSocket(",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("missing %q", want)
			}
		}
		if strings.Contains(html, DatastarScript) {
			t.Error("websocket page should not load datastar")
		}
	})

	t.Run("sse", func(t *testing.T) {
		body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<p>content</p>")
			return err
		})
		html := render(t, Page(PageOptions{Transport: TransportSSE, BasePath: "/toasts", Body: body}))
		for _, want := range []string{
			"<title>toastd</title>",
			DatastarScript,
			`data-toast-transport="sse"`,
			`data-init="@get(&#39;/toasts/sse&#39;)"`,
			"<main><p>content</p></main>",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("missing %q", want)
			}
		}
	})
}
