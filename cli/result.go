package cli

import "fmt"

// exitProblems is returned when the input was rejected or sells were left unmatched.
const exitProblems = 1

// CommandError signals a command failure with a specific exit code. Commands return it after
// printing their own diagnostics, and main exits with the code without printing again.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed with exit code %d", e.exitCode)
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
