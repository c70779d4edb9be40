package errors

import (
	"fmt"
)

// ConfigError reports an invalid or unusable configuration value. It is
// raised before any report parsing starts.
type ConfigError struct {
	Section string
	Err     error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %v", e.Section, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError instance.
func NewConfigError(section string, err error) error {
	return &ConfigError{Section: section, Err: err}
}

// CommandError represents a failed command run, carrying the exit code the
// process should terminate with.
type CommandError struct {
	ExitCode int
	Err      error
}

// Error implements the error interface, returning the underlying message.
func (e *CommandError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance encapsulating the cause and exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{ExitCode: code, Err: err}
}
