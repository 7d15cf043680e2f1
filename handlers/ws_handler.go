package handlers

import (
	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type WSHandler struct {
	hub    *websocket.Hub
	secret string
	log    logger.Logger
}

func NewWSHandler(hub *websocket.Hub, secret string, log logger.Logger) *WSHandler {
	return &WSHandler{hub: hub, secret: secret, log: log}
}

// Upgrade refuses plain HTTP requests on the websocket route.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocketcontrib.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWs expects {"type":"auth","token":...} as the first frame, then keeps
// the connection registered for notification pushes until it closes.
func (h *WSHandler) ServeWs(c *websocketcontrib.Conn) {
	var msg authMessage
	if err := c.ReadJSON(&msg); err != nil || msg.Type != "auth" {
		h.log.Warn("WebSocket auth failed: invalid or missing auth message", err)
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := auth.ParseToken(msg.Token, h.secret)
	if err != nil {
		h.log.Warn("WebSocket auth failed: invalid token", err)
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid token"})
		c.Close()
		return
	}
	p, err := claims.Principal()
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid token"})
		c.Close()
		return
	}

	if err := c.WriteJSON(fiber.Map{"type": "auth_ok"}); err != nil {
		c.Close()
		return
	}

	client := &websocket.Client{AccountID: p.AccountID, Conn: c}
	if !h.hub.Register(client) {
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Server is shutting down"})
		c.Close()
		return
	}
	defer func() {
		h.hub.Unregister(client)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure, websocketcontrib.CloseAbnormalClosure) {
				h.log.Warn("WebSocket read error", err, map[string]interface{}{"account_id": p.AccountID})
			}
			return
		}
	}
}
