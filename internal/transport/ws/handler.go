package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const authTimeout = 10 * time.Second

// Handler upgrades HTTP requests and runs the auth handshake before
// handing the connection to the hub.
type Handler struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The app is anonymous and served to arbitrary web clients.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	// First frame must authenticate. Identity is declared, not proven;
	// the service trusts clients with their own anonymous ids.
	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))
	var frame clientFrame
	if err := conn.ReadJSON(&frame); err != nil || frame.Type != frameAuth || frame.UserID <= 0 {
		_ = conn.WriteJSON(errorFrame("auth frame required"))
		_ = conn.Close()
		return
	}

	s := newSession(h.hub, conn, frame.UserID)
	if err := h.hub.register(s); err != nil {
		_ = conn.WriteJSON(errorFrame("server is shutting down"))
		_ = conn.Close()
		return
	}

	go s.writePump()
	s.enqueue(serverFrame{Type: frameAuthOK})

	h.logger.Debug("websocket session started", zap.Int64("user_id", frame.UserID))
	s.readPump(r.Context())
}
