package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chatbuff.app/backend/common/id"
	"chatbuff.app/backend/internal/http/dto"
	"chatbuff.app/backend/internal/ws"
)

// SessionProcessorFactory builds a fresh pipeline per connection; each
// session owns its own conversation state.
type SessionProcessorFactory func() ws.Processor

type WSHandler struct {
	manager      *ws.Manager
	newProcessor SessionProcessorFactory
	charDelay    time.Duration
	upgrader     websocket.Upgrader
}

func NewWSHandler(manager *ws.Manager, newProcessor SessionProcessorFactory, charDelay time.Duration) *WSHandler {
	return &WSHandler{
		manager:      manager,
		newProcessor: newProcessor,
		charDelay:    charDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and runs the session loop until the client
// disconnects. A missing client id gets a server-generated one.
func (h *WSHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()

	clientID := c.Param("client_id")
	if clientID == "" {
		clientID = id.NewClient()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		slog.WarnContext(ctx, "websocket upgrade failed", "client_id", clientID, "error", err)
		return
	}

	session := ws.NewSession(clientID, conn, h.manager, h.newProcessor(), h.charDelay)
	session.Run(ctx)
}

// Status serves GET /api/ws/status.
func (h *WSHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.WSStatusResponse{
		ActiveConnections: h.manager.ActiveCount(),
		ClientIDs:         h.manager.ClientIDs(),
	})
}
