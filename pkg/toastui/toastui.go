package toastui

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/vango-dev/toastkit/pkg/toast"
)

type messageDataKey struct{}

// WithMessageData returns ctx carrying the context data of a template
// message.
func WithMessageData(ctx context.Context, data any) context.Context {
	return context.WithValue(ctx, messageDataKey{}, data)
}

// MessageData returns the context data handed to a template message. Template
// components call it from their Render method.
func MessageData(ctx context.Context) (any, bool) {
	data := ctx.Value(messageDataKey{})
	return data, data != nil
}

// DefaultIcon returns the glyph shown for t when no custom icon is set.
func DefaultIcon(t toast.Type) string {
	switch t {
	case toast.TypeSuccess:
		return "✓"
	case toast.TypeError:
		return "✕"
	case toast.TypeWarning:
		return "!"
	case toast.TypeInfo:
		return "i"
	default:
		return "•"
	}
}

func toastClasses(view toast.ToastView) []string {
	cfg := view.Instance.Config
	classes := []string{
		"toast",
		"toast--" + string(cfg.Type),
		"toast--" + string(view.Phase),
	}
	if cfg.CustomClass != "" {
		classes = append(classes, cfg.CustomClass)
	}
	return classes
}

func toastIcon(cfg toast.Config) string {
	if cfg.Icon != "" {
		return cfg.Icon
	}
	return DefaultIcon(cfg.Type)
}

// templateMessage renders a caller-supplied message component with its
// context data attached.
func templateMessage(msg toast.Message) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return msg.Template.Render(WithMessageData(ctx, msg.Context), w)
	})
}

// RenderString renders c into a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
