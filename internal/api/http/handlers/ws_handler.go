package handlers

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/realtime"
)

// authFrame is the first message a client must send on the live channel.
type authFrame struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// WSHandler serves the live notification channel.
type WSHandler struct {
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewWSHandler constructs handler.
func NewWSHandler(hub *realtime.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Upgrade gates the route to websocket upgrade requests.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve handles one connection: an auth frame registers the session, then
// the connection idles until the peer goes away. Anything other than a valid
// auth frame closes the connection.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close() //nolint:errcheck

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame authFrame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Type != "auth" || frame.UserID == "" {
			h.logger.Debug("live channel rejected: bad auth frame")
			return
		}

		session := &wsSession{conn: conn}
		h.hub.Register(frame.UserID, session)
		defer h.hub.Unregister(frame.UserID, session)

		// Drain until the peer disconnects; clients only ever send the
		// auth frame.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// wsSession adapts a websocket connection to the hub. Writes are serialized;
// a failed write reports the session dead and the hub prunes it.
type wsSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSession) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
