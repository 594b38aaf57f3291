// Package runner executes shell commands with a hard timeout and
// captured output. Every failure mode is folded into a Result; Run
// never returns an error.
package runner

import (
	"bytes"
	"context"
	"log"
	"os/exec"
	"time"
)

// Result holds the outcome of a single command invocation. The JSON
// field names match the envelope the deployment pipeline consumes.
type Result struct {
	Success  bool   `json:"success"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"returncode"`
	// Error is set only when the command never produced an exit code:
	// launch failure or timeout.
	Error string `json:"error,omitempty"`
}

// TimedOut reports whether the command was killed by the timeout.
func (r *Result) TimedOut() bool {
	return r.Error == timeoutError
}

const timeoutError = "Command timed out"

type Runner struct {
	workDir string
	timeout time.Duration
}

// New returns a Runner that executes commands in workDir unless the
// caller picks a different directory, bounded by timeout.
func New(workDir string, timeout time.Duration) *Runner {
	return &Runner{workDir: workDir, timeout: timeout}
}

// Run executes command in the runner's default working directory.
func (r *Runner) Run(ctx context.Context, command string) *Result {
	return r.RunDir(ctx, r.workDir, command)
}

// RunDir executes command through the host shell with dir as the
// working directory. The subprocess is killed when the timeout
// elapses, and the timeout is reported distinctly from a non-zero
// exit.
func (r *Runner) RunDir(ctx context.Context, dir, command string) *Result {
	if dir == "" {
		dir = r.workDir
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() == context.DeadlineExceeded {
		log.Printf("[Runner] Command timed out after %v: %s", r.timeout, command)
		res.ExitCode = -1
		res.Error = timeoutError
		return res
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// The command never started (bad directory, missing
			// shell, ...). There is no exit code to report.
			res.ExitCode = -1
			res.Error = err.Error()
			return res
		}
		res.ExitCode = exitErr.ExitCode()
	}

	res.Success = res.ExitCode == 0
	return res
}
