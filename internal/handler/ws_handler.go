package handler

import (
	"github.com/gin-gonic/gin"

	"project-planner-api/internal/notifier"
)

// WSHandler exposes the notifier hub as a websocket endpoint
type WSHandler struct {
	hub *notifier.Hub
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *notifier.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Subscribe godoc
// @Summary      변경 알림 구독
// @Description  데이터가 바뀔 때마다 {"type":"sync","timestamp":...} 이벤트를 받습니다
// @Tags         websocket
// @Success      101 {string} string "Switching Protocols"
// @Router       /ws [get]
func (h *WSHandler) Subscribe(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
