package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotadominios/vps-agent/internal/metrics"
)

// SystemHandler serves read-only host information.
type SystemHandler struct{}

func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Info returns host resource usage and a container overview.
// GET /system-info
func (h *SystemHandler) Info(c *gin.Context) {
	system, err := metrics.GetSystemMetrics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"system":  system,
		"docker":  metrics.GetDockerMetrics(c.Request.Context()),
	})
}
