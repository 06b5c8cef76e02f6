package toastui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// Stylesheet renders the toast CSS. exit sets the transition used while a
// toast is removing and should match the service's exit animation.
func Stylesheet(exit time.Duration) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if exit < 0 {
			exit = 0
		}
		_, err := fmt.Fprintf(w, "<style>:root{--toast-exit:%dms}%s</style>", exit.Milliseconds(), css)
		return err
	})
}

const css = `
.toast-container{position:fixed;z-index:9999;display:flex;gap:8px;padding:16px;pointer-events:none;max-width:420px}
.toast-container--top-left{top:0;left:0}
.toast-container--top-center{top:0;left:50%;transform:translateX(-50%)}
.toast-container--top-right{top:0;right:0}
.toast-container--top-full{top:0;left:0;right:0;max-width:none}
.toast-container--bottom-left{bottom:0;left:0}
.toast-container--bottom-center{bottom:0;left:50%;transform:translateX(-50%)}
.toast-container--bottom-right{bottom:0;right:0}
.toast-container--bottom-full{bottom:0;left:0;right:0;max-width:none}
.toast{pointer-events:auto;display:flex;align-items:center;gap:12px;min-width:260px;padding:12px 16px;border-radius:8px;background:#1f2933;color:#f5f7fa;box-shadow:0 4px 12px rgba(0,0,0,.2);font:14px/1.4 system-ui,sans-serif;transition:opacity var(--toast-exit) ease,transform var(--toast-exit) ease;touch-action:pan-y}
.toast--success{background:#1e7e34}
.toast--error{background:#b91c1c}
.toast--warning{background:#b45309}
.toast--info{background:#1d4ed8}
.toast--entering{opacity:0;transform:translateY(-8px)}
.toast-container--bottom-left .toast--entering,.toast-container--bottom-center .toast--entering,.toast-container--bottom-right .toast--entering,.toast-container--bottom-full .toast--entering{transform:translateY(8px)}
.toast--visible,.toast--paused{opacity:1;transform:none}
.toast--removing{opacity:0;transform:scale(.95)}
.toast__icon{font-weight:700}
.toast__message{flex:1}
.toast__action,.toast__close{background:none;border:0;color:inherit;cursor:pointer;font:inherit}
.toast__action{font-weight:600;text-decoration:underline}
.toast__close{font-size:18px;opacity:.7}
.toast__close:hover{opacity:1}
`
