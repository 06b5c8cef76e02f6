package toast

import (
	"context"
	"io"
)

// Renderable is opaque renderable content, such as a templ component.
// It matches github.com/a-h/templ.Component without importing it.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// Message is the content of a toast: either plain text or a Renderable with
// optional context data. The core never interprets a Renderable; it only
// passes it to the Surface.
type Message struct {
	Text     string
	Template Renderable
	Context  any
}

// Text returns a plain-text message.
func Text(s string) Message {
	return Message{Text: s}
}

// Template returns a message rendered by r. data is handed to the renderer
// unchanged.
func Template(r Renderable, data any) Message {
	return Message{Template: r, Context: data}
}

// IsTemplate reports whether the message is a Renderable rather than text.
func (m Message) IsTemplate() bool {
	return m.Template != nil
}
