package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	AI        string `json:"ai"`
}

// HandleHealth is the liveness probe. A missing API key only degrades the service.
func (h *Handler) HandleHealth(c *gin.Context) {
	aiStatus := "unconfigured"
	if _, cred, err := h.lib.APIKey(); err == nil && cred.Configured {
		aiStatus = "configured"
	}

	status := "healthy"
	if aiStatus != "configured" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		AI:        aiStatus,
	})
}

// HandleReadiness reports ready once the catalog and reading state can be read.
func (h *Handler) HandleReadiness(c *gin.Context) {
	if _, err := h.lib.Begin(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
