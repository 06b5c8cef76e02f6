// Package toastui renders toast containers as HTML using templ components.
//
// Container renders a toast.ContainerView exactly as a Surface receives it:
// one element per surface, keyed by the surface ID, with its toasts in list
// order. Bottom positions use flex-direction column-reverse so the newest
// toast sits closest to the screen edge.
//
// Template messages are rendered with their context data available through
// MessageData:
//
//	var Uploaded = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
//	    name, _ := toastui.MessageData(ctx)
//	    _, err := fmt.Fprintf(w, "<b>%s</b> uploaded", templ.EscapeString(name.(string)))
//	    return err
//	})
//
//	svc.Success(toast.Template(Uploaded, "report.pdf"))
package toastui
