// Package handlers exposes the agent's operations over HTTP.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotadominios/vps-agent/internal/services"
	"github.com/rotadominios/vps-agent/internal/version"
)

// AgentHandler translates HTTP requests into agent operations and
// wraps every outcome in the uniform success/failure envelope.
type AgentHandler struct {
	agent *services.AgentService
}

func NewAgentHandler(agent *services.AgentService) *AgentHandler {
	return &AgentHandler{agent: agent}
}

type UpdateCaddyRequest struct {
	Domains   []string `json:"domains"`
	Caddyfile string   `json:"caddyfile"`
}

type DeployRequest struct {
	CommitSha string `json:"commitSha"`
}

type SetupRequest struct {
	Domains       []string `json:"domains"`
	DockerCompose string   `json:"dockerCompose"`
	Caddyfile     string   `json:"caddyfile"`
}

type ExecCommandRequest struct {
	Command string `json:"command"`
}

// Health returns static identity information. No auth required.
// GET /health
func (h *AgentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"agent":   "vps-agent",
		"version": version.Version,
	})
}

// UpdateCaddy writes a new Caddyfile and reloads Caddy.
// POST /update-caddy
func (h *AgentHandler) UpdateCaddy(c *gin.Context) {
	var req UpdateCaddyRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.agent.UpdateCaddy(c.Request.Context(), req.Domains, req.Caddyfile); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Caddyfile updated and Caddy reloaded successfully",
		"domains": req.Domains,
	})
}

// ReloadCaddy restarts the Caddy service.
// POST /reload-caddy
func (h *AgentHandler) ReloadCaddy(c *gin.Context) {
	if err := h.agent.ReloadCaddy(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Caddy reloaded successfully",
	})
}

// RestartServices restarts all docker compose services.
// POST /restart-services
func (h *AgentHandler) RestartServices(c *gin.Context) {
	if err := h.agent.RestartServices(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All services restarted successfully",
	})
}

// RestartTunnel restarts the Cloudflare tunnel.
// POST /restart-tunnel
func (h *AgentHandler) RestartTunnel(c *gin.Context) {
	if err := h.agent.RestartTunnel(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cloudflare tunnel restarted successfully",
	})
}

// Deploy runs the deployment pipeline.
// POST /deploy
func (h *AgentHandler) Deploy(c *gin.Context) {
	var req DeployRequest
	_ = c.ShouldBindJSON(&req)

	if req.CommitSha == "" {
		req.CommitSha = "latest"
	}

	if err := h.agent.Deploy(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Deployment completed successfully",
		"commitSha": req.CommitSha,
	})
}

// Setup provisions the app directory and starts the services.
// POST /setup
func (h *AgentHandler) Setup(c *gin.Context) {
	var req SetupRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.agent.Setup(c.Request.Context(), req.Domains, req.DockerCompose, req.Caddyfile); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "VPS setup completed successfully",
		"domains": req.Domains,
	})
}

// Status returns the raw service-status output.
// POST /status
func (h *AgentHandler) Status(c *gin.Context) {
	out := h.agent.Status(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Status checked successfully",
		"services": out,
	})
}

// ExecCommand runs an allowlisted command.
// POST /exec-command
func (h *AgentHandler) ExecCommand(c *gin.Context) {
	var req ExecCommandRequest
	_ = c.ShouldBindJSON(&req)

	res, err := h.agent.ExecCommand(c.Request.Context(), req.Command)
	if err != nil {
		fail(c, err)
		return
	}

	resp := gin.H{
		"success": res.Success,
		"output":  nil,
		"error":   nil,
	}
	if res.Success {
		resp["output"] = res.Stdout
	} else if res.Error != "" {
		resp["error"] = res.Error
	} else {
		resp["error"] = res.Stderr
	}

	c.JSON(http.StatusOK, resp)
}
