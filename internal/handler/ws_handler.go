package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MaxonPy/kanban/internal/metrics"
	"github.com/MaxonPy/kanban/internal/ws"
)

// WSHandler handles subscriber connections for task event delivery
type WSHandler struct {
	registry *ws.Registry
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(registry *ws.Registry, log *zap.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the connection and keeps it registered until the peer
// disconnects or errors. The read loop waits cooperatively; it never blocks
// broadcasts to other connections.
func (h *WSHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("failed to accept WebSocket connection", zap.Error(err))
		return
	}

	client := ws.NewClient(conn)
	h.registry.Register(client)
	metrics.WSConnections.Inc()
	h.log.Info("new WebSocket connection established",
		zap.Int("total_connections", h.registry.Len()))

	defer func() {
		h.registry.Unregister(client)
		client.Close()
		metrics.WSConnections.Dec()
		h.log.Info("WebSocket connection removed",
			zap.Int("total_connections", h.registry.Len()))
	}()

	for {
		if _, err := client.Receive(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.Warn("error in WebSocket connection", zap.Error(err))
			}
			return
		}
	}
}
