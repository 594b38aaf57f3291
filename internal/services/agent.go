// Package services implements the agent's operations: config file
// management, service control through docker compose, deployment, and
// allowlisted command execution.
package services

import (
	"context"
	"log"
	"os"

	"github.com/rotadominios/vps-agent/internal/allowlist"
	"github.com/rotadominios/vps-agent/internal/config"
	"github.com/rotadominios/vps-agent/internal/runner"
)

// The service manager is an opaque subprocess: every control operation
// shells out to one of these fixed commands.
const (
	cmdReloadCaddy      = "docker compose exec caddy caddy reload --config /etc/caddy/Caddyfile"
	cmdRestartCaddy     = "docker compose restart caddy"
	cmdRestartServices  = "docker compose restart"
	cmdRestartTunnel    = "docker compose restart cloudflared"
	cmdDeployScript     = "./deploy.sh"
	cmdUpdateContainers = "docker compose up -d --pull always"
	cmdStartServices    = "docker compose up -d"
	cmdServiceStatus    = "docker compose ps --format json"
)

const deployScript = `#!/bin/bash
set -e
echo "Starting deployment..."
git pull origin main || echo "No git repository found"
echo "Deployment completed"
`

// CommandRunner executes a single shell command and reports the
// outcome as a result, never as an error.
type CommandRunner interface {
	Run(ctx context.Context, command string) *runner.Result
	RunDir(ctx context.Context, dir, command string) *runner.Result
}

// AgentService composes the runner and the allowlist into the agent's
// fixed set of operations. It holds no mutable state; the config and
// allowlist are built once at startup.
type AgentService struct {
	cfg    *config.Config
	runner CommandRunner
	allow  *allowlist.List
}

func NewAgentService(cfg *config.Config, r CommandRunner, allow *allowlist.List) *AgentService {
	return &AgentService{cfg: cfg, runner: r, allow: allow}
}

// UpdateCaddy writes the submitted Caddyfile and reloads Caddy. The
// file stays updated even when the reload fails; there is no rollback.
func (s *AgentService) UpdateCaddy(ctx context.Context, domains []string, caddyfile string) error {
	log.Printf("[Agent] Updating Caddyfile with domains: %v", domains)

	if err := os.MkdirAll(s.cfg.Agent.AppDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.Agent.CaddyfilePath(), []byte(caddyfile), 0o644); err != nil {
		return err
	}

	if res := s.runner.Run(ctx, cmdReloadCaddy); !res.Success {
		return &ExecError{Message: "Failed to reload Caddy", Result: res}
	}
	return nil
}

// ReloadCaddy restarts the Caddy container.
func (s *AgentService) ReloadCaddy(ctx context.Context) error {
	if res := s.runner.Run(ctx, cmdRestartCaddy); !res.Success {
		return &ExecError{Message: "Failed to reload Caddy", Result: res}
	}
	return nil
}

// RestartServices restarts every docker compose service.
func (s *AgentService) RestartServices(ctx context.Context) error {
	if res := s.runner.Run(ctx, cmdRestartServices); !res.Success {
		return &ExecError{Message: "Failed to restart services", Result: res}
	}
	return nil
}

// RestartTunnel restarts the Cloudflare tunnel container.
func (s *AgentService) RestartTunnel(ctx context.Context) error {
	if res := s.runner.Run(ctx, cmdRestartTunnel); !res.Success {
		return &ExecError{Message: "Failed to restart tunnel", Result: res}
	}
	return nil
}

// Deploy runs the deploy script and then refreshes the containers,
// strictly in that order. A failed first step aborts the second.
func (s *AgentService) Deploy(ctx context.Context) error {
	if res := s.runner.Run(ctx, cmdDeployScript); !res.Success {
		return &ExecError{Message: "Deploy script failed", Result: res}
	}
	if res := s.runner.Run(ctx, cmdUpdateContainers); !res.Success {
		return &ExecError{Message: "Failed to update containers", Result: res}
	}
	return nil
}

// Setup provisions the app directory: docker-compose.yml and Caddyfile
// from the submitted content, the fixed deploy script, then starts the
// services. Any failing step aborts the remaining ones.
func (s *AgentService) Setup(ctx context.Context, domains []string, dockerCompose, caddyfile string) error {
	log.Printf("[Agent] Running setup for domains: %v", domains)

	if err := os.MkdirAll(s.cfg.Agent.AppDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.Agent.ComposePath(), []byte(dockerCompose), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.Agent.CaddyfilePath(), []byte(caddyfile), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.Agent.DeployScriptPath(), []byte(deployScript), 0o755); err != nil {
		return err
	}

	if res := s.runner.Run(ctx, cmdStartServices); !res.Success {
		return &ExecError{Message: "Failed to start services", Result: res}
	}
	return nil
}

// Status runs the fixed service-status query and returns its raw
// output. The output is opaque to the agent; the caller parses it.
func (s *AgentService) Status(ctx context.Context) string {
	return s.runner.Run(ctx, cmdServiceStatus).Stdout
}

// ExecCommand validates a free-form command against the allowlist and
// runs it in the app directory. Rejection is the default: only exact
// allowlist matches and timestamped backup copies get through.
func (s *AgentService) ExecCommand(ctx context.Context, command string) (*runner.Result, error) {
	if command == "" {
		return nil, ErrCommandRequired
	}
	if !s.allow.Allowed(command) {
		return nil, &CommandNotAllowedError{Command: command}
	}

	log.Printf("[Agent] Executing command: %s", command)
	return s.runner.RunDir(ctx, s.cfg.Agent.AppDir, command), nil
}
