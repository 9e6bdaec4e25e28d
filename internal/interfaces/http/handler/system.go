package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles system-level endpoints
type SystemHandler struct {
	BaseHandler
	appName string
	env     string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(appName, env string) *SystemHandler {
	return &SystemHandler{appName: appName, env: env}
}

// Health returns the service health status
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status": "ok",
		"app":    h.appName,
		"env":    h.env,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ping returns a minimal liveness response
func (h *SystemHandler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
