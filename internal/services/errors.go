package services

import (
	"errors"
	"fmt"

	"github.com/rotadominios/vps-agent/internal/runner"
)

// ErrCommandRequired is returned when the exec endpoint is called
// without a command.
var ErrCommandRequired = errors.New("Command is required")

// CommandNotAllowedError is returned when a requested command is not
// on the allowlist. It carries the rejected command text so the
// operator can see what was attempted.
type CommandNotAllowedError struct {
	Command string
}

func (e *CommandNotAllowedError) Error() string {
	return fmt.Sprintf("Command not allowed: %s", e.Command)
}

// ExecError is returned when one of an operation's fixed commands
// fails. Message is the operator-facing summary; Result carries the
// captured output and exit code for remote diagnosis.
type ExecError struct {
	Message string
	Result  *runner.Result
}

func (e *ExecError) Error() string {
	return e.Message
}
