package toastui

import (
	"time"

	"github.com/a-h/templ"
)

// Transport selects how a page receives surface patches.
type Transport string

const (
	// TransportWebSocket streams JSON patches over /ws and sends
	// interactions back on the same socket.
	TransportWebSocket Transport = "ws"

	// TransportSSE lets datastar apply element patches from /sse. Interactions
	// are posted to the HTTP API.
	TransportSSE Transport = "sse"
)

// DatastarScript is the datastar client bundle loaded by SSE pages.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// PageOptions configures Page.
type PageOptions struct {
	Title         string
	Transport     Transport
	ExitAnimation time.Duration

	// BasePath prefixes the /ws, /sse and /api endpoints.
	BasePath string

	// Body is rendered inside <main>. It may be nil.
	Body templ.Component
}

// Page renders a complete HTML document that mounts toast surfaces pushed by
// the host.
func Page(opts PageOptions) templ.Component {
	if opts.Title == "" {
		opts.Title = "toastd"
	}
	if opts.Transport != TransportSSE {
		opts.Transport = TransportWebSocket
	}
	return page(opts)
}

func clientScript() templ.Component {
	return templ.Raw("<script>" + clientJS + "</script>")
}

// clientJS applies WebSocket patches and reports pointer, click and swipe
// interactions for every element carrying data-toast-id.
const clientJS = `(function(){
var body=document.body,base=body.dataset.toastBase||"",transport=body.dataset.toastTransport,ws=null;
function send(id,interaction){
  if(ws&&ws.readyState===1){ws.send(JSON.stringify({toast:id,interaction:interaction}));return}
  fetch(base+"/api/toasts/"+encodeURIComponent(id)+"/events/"+interaction,{method:"POST"});
}
function apply(p){
  var el=document.getElementById(p.surface);
  if(p.op==="unmount"){if(el)el.remove();return}
  var tpl=document.createElement("template");tpl.innerHTML=p.html;
  var next=tpl.content.firstElementChild;if(!next)return;
  if(el){el.replaceWith(next)}else{body.appendChild(next)}
}
function connect(){
  var proto=location.protocol==="https:"?"wss://":"ws://";
  ws=new WebSocket(proto+location.host+base+"/ws");
  ws.onmessage=function(e){apply(JSON.parse(e.data))};
  ws.onclose=function(){setTimeout(connect,1000)};
}
function toastOf(t){return t&&t.closest?t.closest("[data-toast-id]"):null}
document.addEventListener("pointerover",function(e){
  var el=toastOf(e.target);if(!el||el.contains(e.relatedTarget))return;send(el.dataset.toastId,"pointer-enter");
});
document.addEventListener("pointerout",function(e){
  var el=toastOf(e.target);if(!el||el.contains(e.relatedTarget))return;send(el.dataset.toastId,"pointer-leave");
});
document.addEventListener("click",function(e){
  var el=toastOf(e.target);if(!el)return;
  var btn=e.target.closest("[data-toast-action]");
  send(el.dataset.toastId,btn?btn.dataset.toastAction:"click");
});
var start=null;
document.addEventListener("pointerdown",function(e){var el=toastOf(e.target);start=el?{el:el,x:e.clientX}:null});
document.addEventListener("pointerup",function(e){
  if(!start)return;var dx=Math.abs(e.clientX-start.x),el=start.el;start=null;
  if(dx>80)send(el.dataset.toastId,"swipe");
});
if(transport==="ws")connect();
})();`
