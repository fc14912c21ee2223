package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// session is one live authenticated connection. Reads happen on the
// caller's goroutine, writes on a dedicated pump so a slow reader never
// blocks delivery to other users.
type session struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan serverFrame

	once sync.Once
	done chan struct{}
}

func newSession(hub *Hub, conn *websocket.Conn, userID int64) *session {
	return &session{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan serverFrame, hub.cfg.SendBuffer),
		done:   make(chan struct{}),
	}
}

// enqueue hands frame to the write pump. A full buffer drops the frame
// rather than blocking the hub.
func (s *session) enqueue(frame serverFrame) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- frame:
		return true
	default:
		s.hub.logger.Warn("send buffer full, dropping frame",
			zap.Int64("user_id", s.userID),
			zap.String("frame_type", frame.Type),
		)
		return false
	}
}

func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}

// readPump consumes client frames until the connection dies or the
// session is closed. It owns unregistration.
func (s *session) readPump(ctx context.Context) {
	defer func() {
		s.hub.unregister(s)
		s.close()
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(s.hub.cfg.MaxMessageBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.hub.refreshPresence(s.userID)
		return s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongTimeout))
	})

	for {
		var frame clientFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Debug("websocket read failed", zap.Error(err), zap.Int64("user_id", s.userID))
			}
			return
		}

		switch frame.Type {
		case frameChatMessage:
			s.hub.handleChatMessage(ctx, s, frame)
		case frameAuth:
			// Already authenticated; re-auth is a no-op.
		default:
			s.enqueue(errorFrame("unknown frame type"))
		}
	}
}

// writePump serializes frames and keepalive pings onto the connection.
func (s *session) writePump() {
	ticker := time.NewTicker(s.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteTimeout))
			if err := s.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteTimeout))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
