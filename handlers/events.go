package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/hub"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/storage"
)

// keepaliveInterval is how often an SSE comment is written on an otherwise
// idle stream so proxies do not reap the connection.
const keepaliveInterval = 15 * time.Second

// EventsHandler streams profile change events to connected clients
type EventsHandler struct {
	engine *engine.Engine
	hub    *hub.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(eng *engine.Engine, h *hub.Hub) *EventsHandler {
	return &EventsHandler{
		engine: eng,
		hub:    h,
	}
}

// StreamEvents streams change events for a session over SSE
// @Summary Stream session events
// @Description Subscribe to live change events for a session via Server-Sent Events. Events start from subscription time; fetch the profile snapshot first for current state. Each SSE event is named by its change type and carries the full event envelope.
// @Tags Events
// @Produce text/event-stream
// @Param id path string true "Session ID"
// @Success 200 {string} string "Event stream"
// @Failure 404 {object} models.ErrorResponse "Session not found"
// @Router /sessions/{id}/events [get]
func (h *EventsHandler) StreamEvents(c *gin.Context) {
	sessionID := c.Param("id")

	if _, err := h.engine.GetProfile(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Session not found",
				Code:  http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to load session",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	sub := h.hub.Subscribe(sessionID)
	defer h.hub.Unsubscribe(sessionID, sub.ID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()
	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.C:
			if !ok {
				// Dropped by the hub, e.g. for falling behind.
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			return true
		case <-clientGone:
			return false
		}
	})
}
