package handlers

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/middleware"
	"github.com/P4t4m8n/buff-buddy-api/internal/services"
	programws "github.com/P4t4m8n/buff-buddy-api/internal/websocket"
)

type ProgramStreamHandler struct {
	hub    *programws.Hub
	logger *zap.Logger
}

func NewProgramStreamHandler(hub *programws.Hub, logger *zap.Logger) *ProgramStreamHandler {
	return &ProgramStreamHandler{hub: hub, logger: logger}
}

// Upgrade admits only authenticated websocket handshakes.
func (h *ProgramStreamHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
			"message": "WebSocket upgrade required",
			"errors":  fiber.Map{},
		})
	}
	if middleware.CurrentUser(c) == nil {
		return respondError(c, h.logger, services.ErrUnauthenticated)
	}
	return c.Next()
}

func (h *ProgramStreamHandler) Stream(conn *websocket.Conn) {
	user := middleware.SocketUser(conn.Locals)
	if user == nil {
		_ = conn.Close()
		return
	}

	client := programws.NewClient(h.hub, conn, user.ID)
	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}
