package host

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/toastkit/pkg/toast"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 4 << 10
)

// ClientMessage is an interaction reported by a WebSocket client.
type ClientMessage struct {
	Toast       string `json:"toast"`
	Interaction string `json:"interaction"`
}

// handleWebSocket upgrades the connection, sends the current snapshot and
// then streams patches. Interactions read from the socket are delivered to
// the service on the loop.
func (h *Host) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	client, snapshot := h.hub.Subscribe("ws")
	logger := h.logger.With("client", client.ID)
	logger.Debug("websocket connected", "remote", r.RemoteAddr)

	go h.writeLoop(conn, client, snapshot)
	h.readLoop(r, conn, client)

	h.hub.Unsubscribe(client)
	logger.Debug("websocket closed")
}

// readLoop reads client messages until the connection fails or the client
// is dropped by the hub.
func (h *Host) readLoop(r *http.Request, conn *websocket.Conn, client *Client) {
	defer conn.Close()

	conn.SetReadLimit(wsMaxMessage)
	readTimeout := 2 * h.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.logger.Error("websocket read error", "client", client.ID, "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("websocket message decode error", "client", client.ID, "error", err)
			continue
		}
		in, ok := toast.ParseInteraction(msg.Interaction)
		if !ok {
			h.logger.Debug("unknown interaction", "client", client.ID, "interaction", msg.Interaction)
			continue
		}

		if _, _, err := h.interact(r, msg.Toast, in); err != nil {
			h.logger.Warn("interaction not delivered", "client", client.ID, "toast_id", msg.Toast, "error", err)
		}
	}
}

// writeLoop is the only writer on conn. It sends the snapshot, then patches
// and heartbeats until the client is done.
func (h *Host) writeLoop(conn *websocket.Conn, client *Client, snapshot []Patch) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for _, p := range snapshot {
		if err := writePatch(conn, p); err != nil {
			return
		}
	}

	for {
		select {
		case p := <-client.Patches():
			if err := writePatch(conn, p); err != nil {
				h.logger.Debug("websocket write error", "client", client.ID, "error", err)
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}

		case <-client.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteTimeout))
			return
		}
	}
}

func writePatch(conn *websocket.Conn, p Patch) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(p)
}
