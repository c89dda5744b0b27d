package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"warestock/internal/domain/notify"
)

// EventsHandler streams post-commit movement notifications over SSE.
type EventsHandler struct {
	*BaseHandler
	hub *notify.Hub
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(base *BaseHandler, hub *notify.Hub) *EventsHandler {
	return &EventsHandler{BaseHandler: base, hub: hub}
}

// Stream handles GET /stock-movements/events. The connection stays open
// until the client disconnects; missed messages are not replayed.
func (h *EventsHandler) Stream(c *gin.Context) {
	ch, cancel := h.hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		}
	})
}
