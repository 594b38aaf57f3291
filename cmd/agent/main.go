// Package main is the entry point for the VPS agent.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/rotadominios/vps-agent/internal/allowlist"
	"github.com/rotadominios/vps-agent/internal/config"
	"github.com/rotadominios/vps-agent/internal/router"
	"github.com/rotadominios/vps-agent/internal/runner"
	"github.com/rotadominios/vps-agent/internal/services"
	"github.com/rotadominios/vps-agent/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("VPS Agent %s\n", version.Version)
		fmt.Printf("Build Time: %s\n", version.BuildTime)
		fmt.Printf("Git Commit: %s\n", version.GitCommit)
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Warning: Could not load config from %s: %v", *configPath, err)
		log.Println("Using default configuration...")
		cfg, _ = config.Load("")
	}

	if cfg.Agent.Token == "" {
		log.Println("")
		log.Println("╔══════════════════════════════════════════════════════════════════╗")
		log.Println("║  SECURITY ERROR: Agent token not configured!                      ║")
		log.Println("║                                                                    ║")
		log.Println("║  Set VPS_AGENT_TOKEN in the environment (or agent.token in the    ║")
		log.Println("║  config file). Generate one with: openssl rand -hex 32            ║")
		log.Println("╚══════════════════════════════════════════════════════════════════╝")
		log.Println("")
		log.Fatalf("Agent startup aborted: token is required")
	}

	run := runner.New(cfg.Agent.AppDir, cfg.Execution.GetCommandTimeout())
	allow := allowlist.New(cfg.Agent.AppDir)
	agent := services.NewAgentService(cfg, run, allow)

	r := router.New(cfg, agent)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("VPS Agent %s starting on %s (app dir: %s)", version.Version, addr, cfg.Agent.AppDir)

	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
