package host

import (
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

// handleSSE streams surface patches as datastar element patches. Mounts are
// appended to the body, renders morph the surface in place and unmounts
// remove it. Interactions come back through the HTTP API.
func (h *Host) handleSSE(w http.ResponseWriter, r *http.Request) {
	// Long-lived stream: lift the server write deadline.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sse := datastar.NewSSE(w, r)
	client, snapshot := h.hub.Subscribe("sse")
	defer h.hub.Unsubscribe(client)

	logger := h.logger.With("client", client.ID)
	logger.Debug("sse connected", "remote", r.RemoteAddr)

	for _, p := range snapshot {
		if err := sendSSEPatch(sse, p); err != nil {
			logger.Debug("sse write error", "error", err)
			return
		}
	}

	for {
		select {
		case p := <-client.Patches():
			if err := sendSSEPatch(sse, p); err != nil {
				logger.Debug("sse write error", "error", err)
				return
			}

		case <-client.Done():
			return

		case <-r.Context().Done():
			logger.Debug("sse closed")
			return
		}
	}
}

func sendSSEPatch(sse *datastar.ServerSentEventGenerator, p Patch) error {
	switch p.Op {
	case OpMount:
		return sse.PatchElements(p.HTML,
			datastar.WithSelector("body"),
			datastar.WithMode(datastar.ElementPatchModeAppend))
	case OpRender:
		return sse.PatchElements(p.HTML)
	case OpUnmount:
		return sse.PatchElements("",
			datastar.WithSelector("#"+p.Surface),
			datastar.WithMode(datastar.ElementPatchModeRemove))
	}
	return nil
}
