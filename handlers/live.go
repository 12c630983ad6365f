package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/live"
)

// watchable names the collections the console may subscribe to. The users
// table, the feedback list and the FAQ editor all render live snapshots.
var watchable = map[string]bool{
	database.UsersCollection:    true,
	database.FeedbackCollection: true,
	database.FAQsCollection:     true,
}

// LiveHandler upgrades watch requests to WebSocket snapshot streams.
type LiveHandler struct {
	hub *live.Hub
}

func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

func (h *LiveHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/watch/:collection", h.Watch)
}

func (h *LiveHandler) Watch(c *gin.Context) {
	collection := c.Param("collection")
	if !watchable[collection] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return
	}
	if err := h.hub.ServeWS(c.Writer, c.Request, collection); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}
}
