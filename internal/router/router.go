// Package router wires the agent's endpoints to their handlers.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rotadominios/vps-agent/internal/config"
	"github.com/rotadominios/vps-agent/internal/handlers"
	"github.com/rotadominios/vps-agent/internal/middleware"
	"github.com/rotadominios/vps-agent/internal/services"
)

func New(cfg *config.Config, agent *services.AgentService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.DefaultBodyLimit())

	agentHandler := handlers.NewAgentHandler(agent)
	systemHandler := handlers.NewSystemHandler()

	// Health check is the only unauthenticated endpoint.
	r.GET("/health", agentHandler.Health)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired(cfg.Agent.Token))
	{
		protected.POST("/update-caddy", agentHandler.UpdateCaddy)
		protected.POST("/reload-caddy", agentHandler.ReloadCaddy)
		protected.POST("/restart-services", agentHandler.RestartServices)
		protected.POST("/restart-tunnel", agentHandler.RestartTunnel)
		protected.POST("/deploy", agentHandler.Deploy)
		protected.POST("/setup", agentHandler.Setup)
		protected.POST("/status", agentHandler.Status)
		protected.POST("/exec-command", agentHandler.ExecCommand)

		protected.GET("/system-info", systemHandler.Info)
	}

	return r
}
