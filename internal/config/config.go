// Package config loads the agent configuration from YAML with
// environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Agent     AgentConfig     `yaml:"agent"`
	Execution ExecutionConfig `yaml:"execution"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AgentConfig struct {
	// Token is the shared secret checked against the Authorization
	// header on every request. The agent refuses to start without it.
	Token string `yaml:"token"`

	// AppDir is the directory holding the Caddyfile, docker-compose.yml
	// and deploy script. It is also the default working directory for
	// every command the agent runs.
	AppDir string `yaml:"app_dir"`
}

type ExecutionConfig struct {
	// CommandTimeout bounds every command invocation, in seconds.
	CommandTimeout int `yaml:"command_timeout"`
}

func (c *ExecutionConfig) GetCommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}

// CaddyfilePath returns the path of the managed Caddyfile.
func (c *AgentConfig) CaddyfilePath() string {
	return filepath.Join(c.AppDir, "Caddyfile")
}

// ComposePath returns the path of the managed docker-compose.yml.
func (c *AgentConfig) ComposePath() string {
	return filepath.Join(c.AppDir, "docker-compose.yml")
}

// DeployScriptPath returns the path of the deploy script.
func (c *AgentConfig) DeployScriptPath() string {
	return filepath.Join(c.AppDir, "deploy.sh")
}

func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnv overlays environment variables on top of the file values.
// Environment wins so the token can be injected without touching the
// config file on disk.
func applyEnv(cfg *Config) {
	if v := os.Getenv("VPS_AGENT_TOKEN"); v != "" {
		cfg.Agent.Token = v
	}
	if v := os.Getenv("VPS_AGENT_APP_DIR"); v != "" {
		cfg.Agent.AppDir = v
	}
	if v := os.Getenv("VPS_AGENT_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("VPS_AGENT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8888
	}
	if cfg.Agent.AppDir == "" {
		cfg.Agent.AppDir = "/opt/app"
	}
	if cfg.Execution.CommandTimeout == 0 {
		cfg.Execution.CommandTimeout = 60
	}
}
