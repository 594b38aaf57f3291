package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotadominios/vps-agent/internal/allowlist"
	"github.com/rotadominios/vps-agent/internal/config"
	"github.com/rotadominios/vps-agent/internal/runner"
	"github.com/rotadominios/vps-agent/internal/services"
)

// stubRunner records every command and returns canned results, so
// tests can assert on sequencing without touching a real shell.
type stubRunner struct {
	commands []string
	dirs     []string
	results  map[string]*runner.Result
}

func (s *stubRunner) Run(ctx context.Context, command string) *runner.Result {
	return s.RunDir(ctx, "", command)
}

func (s *stubRunner) RunDir(ctx context.Context, dir, command string) *runner.Result {
	s.commands = append(s.commands, command)
	s.dirs = append(s.dirs, dir)
	if res, ok := s.results[command]; ok {
		return res
	}
	return &runner.Result{Success: true}
}

func newTestAgent(t *testing.T, stub *stubRunner) (*services.AgentService, *config.Config) {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Agent.AppDir = filepath.Join(t.TempDir(), "app")

	return services.NewAgentService(cfg, stub, allowlist.New(cfg.Agent.AppDir)), cfg
}

func TestUpdateCaddy_WritesFileAndReloads(t *testing.T) {
	stub := &stubRunner{}
	agent, cfg := newTestAgent(t, stub)

	content := "example.com {\n\treverse_proxy app:3000\n}\n"
	if err := agent.UpdateCaddy(context.Background(), []string{"example.com"}, content); err != nil {
		t.Fatalf("UpdateCaddy failed: %v", err)
	}

	written, err := os.ReadFile(cfg.Agent.CaddyfilePath())
	if err != nil {
		t.Fatalf("Caddyfile not written: %v", err)
	}
	if string(written) != content {
		t.Errorf("Caddyfile content mismatch:\n got %q\nwant %q", written, content)
	}

	if len(stub.commands) != 1 {
		t.Fatalf("expected 1 command, got %v", stub.commands)
	}
	if stub.commands[0] != "docker compose exec caddy caddy reload --config /etc/caddy/Caddyfile" {
		t.Errorf("unexpected reload command: %s", stub.commands[0])
	}
}

func TestUpdateCaddy_ReloadFailureKeepsFile(t *testing.T) {
	reloadCmd := "docker compose exec caddy caddy reload --config /etc/caddy/Caddyfile"
	stub := &stubRunner{results: map[string]*runner.Result{
		reloadCmd: {Success: false, Stderr: "caddy: config error", ExitCode: 1},
	}}
	agent, cfg := newTestAgent(t, stub)

	err := agent.UpdateCaddy(context.Background(), nil, "broken config")

	var execErr *services.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if execErr.Message != "Failed to reload Caddy" {
		t.Errorf("unexpected message: %s", execErr.Message)
	}
	if execErr.Result == nil || execErr.Result.Stderr != "caddy: config error" {
		t.Errorf("expected runner result to be attached, got %+v", execErr.Result)
	}

	// No rollback: the file stays updated even though the reload failed.
	written, err := os.ReadFile(cfg.Agent.CaddyfilePath())
	if err != nil {
		t.Fatalf("Caddyfile not written: %v", err)
	}
	if string(written) != "broken config" {
		t.Errorf("expected file to keep new content, got %q", written)
	}
}

func TestDeploy_RunsStepsInOrder(t *testing.T) {
	stub := &stubRunner{}
	agent, _ := newTestAgent(t, stub)

	if err := agent.Deploy(context.Background()); err != nil {
		t.Fatalf("Deploy failed: %v", err)
	}

	want := []string{"./deploy.sh", "docker compose up -d --pull always"}
	if len(stub.commands) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), stub.commands)
	}
	for i := range want {
		if stub.commands[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], stub.commands[i])
		}
	}
}

func TestDeploy_AbortsAfterFirstFailure(t *testing.T) {
	stub := &stubRunner{results: map[string]*runner.Result{
		"./deploy.sh": {Success: false, Stderr: "script error", ExitCode: 1},
	}}
	agent, _ := newTestAgent(t, stub)

	err := agent.Deploy(context.Background())

	var execErr *services.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if execErr.Message != "Deploy script failed" {
		t.Errorf("unexpected message: %s", execErr.Message)
	}

	if len(stub.commands) != 1 {
		t.Fatalf("expected container refresh to be skipped, ran: %v", stub.commands)
	}
}

func TestSetup_WritesFilesAndStartsServices(t *testing.T) {
	stub := &stubRunner{}
	agent, cfg := newTestAgent(t, stub)

	compose := "services:\n  app:\n    image: app:latest\n"
	caddyfile := "example.com {\n}\n"
	if err := agent.Setup(context.Background(), []string{"example.com"}, compose, caddyfile); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	gotCompose, err := os.ReadFile(cfg.Agent.ComposePath())
	if err != nil {
		t.Fatalf("compose file not written: %v", err)
	}
	if string(gotCompose) != compose {
		t.Errorf("compose content mismatch: got %q", gotCompose)
	}

	gotCaddy, err := os.ReadFile(cfg.Agent.CaddyfilePath())
	if err != nil {
		t.Fatalf("Caddyfile not written: %v", err)
	}
	if string(gotCaddy) != caddyfile {
		t.Errorf("Caddyfile content mismatch: got %q", gotCaddy)
	}

	info, err := os.Stat(cfg.Agent.DeployScriptPath())
	if err != nil {
		t.Fatalf("deploy script not written: %v", err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Errorf("deploy script is not executable: %v", info.Mode())
	}

	if len(stub.commands) != 1 || stub.commands[0] != "docker compose up -d" {
		t.Errorf("expected services to be started, ran: %v", stub.commands)
	}
}

func TestSetup_StartFailure(t *testing.T) {
	stub := &stubRunner{results: map[string]*runner.Result{
		"docker compose up -d": {Success: false, Stderr: "no daemon", ExitCode: 1},
	}}
	agent, _ := newTestAgent(t, stub)

	err := agent.Setup(context.Background(), nil, "compose", "caddy")

	var execErr *services.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if execErr.Message != "Failed to start services" {
		t.Errorf("unexpected message: %s", execErr.Message)
	}
}

func TestStatus_ReturnsRawOutput(t *testing.T) {
	stub := &stubRunner{results: map[string]*runner.Result{
		"docker compose ps --format json": {Success: true, Stdout: `{"Name":"caddy","State":"running"}`},
	}}
	agent, _ := newTestAgent(t, stub)

	out := agent.Status(context.Background())
	if out != `{"Name":"caddy","State":"running"}` {
		t.Errorf("unexpected status output: %q", out)
	}
}

func TestExecCommand_EmptyCommand(t *testing.T) {
	stub := &stubRunner{}
	agent, _ := newTestAgent(t, stub)

	_, err := agent.ExecCommand(context.Background(), "")
	if !errors.Is(err, services.ErrCommandRequired) {
		t.Fatalf("expected ErrCommandRequired, got %v", err)
	}
	if len(stub.commands) != 0 {
		t.Errorf("runner must not be invoked for an empty command, ran: %v", stub.commands)
	}
}

func TestExecCommand_NotAllowed(t *testing.T) {
	stub := &stubRunner{}
	agent, _ := newTestAgent(t, stub)

	_, err := agent.ExecCommand(context.Background(), "rm -rf /")

	var notAllowed *services.CommandNotAllowedError
	if !errors.As(err, &notAllowed) {
		t.Fatalf("expected CommandNotAllowedError, got %v", err)
	}
	if notAllowed.Error() != "Command not allowed: rm -rf /" {
		t.Errorf("unexpected error message: %s", notAllowed.Error())
	}
	if len(stub.commands) != 0 {
		t.Errorf("runner must not be invoked for a rejected command, ran: %v", stub.commands)
	}
}

func TestExecCommand_AllowedRunsInAppDir(t *testing.T) {
	stub := &stubRunner{}
	agent, cfg := newTestAgent(t, stub)

	command := "docker compose ps"
	res, err := agent.ExecCommand(context.Background(), command)
	if err != nil {
		t.Fatalf("ExecCommand failed: %v", err)
	}
	if !res.Success {
		t.Errorf("expected success, got %+v", res)
	}

	if len(stub.commands) != 1 || stub.commands[0] != command {
		t.Fatalf("expected %q to run, ran: %v", command, stub.commands)
	}
	if stub.dirs[0] != cfg.Agent.AppDir {
		t.Errorf("expected command to run in app dir %q, got %q", cfg.Agent.AppDir, stub.dirs[0])
	}
}

func TestExecCommand_BackupCommand(t *testing.T) {
	stub := &stubRunner{}
	agent, cfg := newTestAgent(t, stub)

	command := "cp " + cfg.Agent.AppDir + "/Caddyfile " + cfg.Agent.AppDir + "/Caddyfile.bak.20240115103000"
	if _, err := agent.ExecCommand(context.Background(), command); err != nil {
		t.Fatalf("expected backup command to be admitted, got %v", err)
	}
}
