// Package errors provides structured error handling with context propagation
// and exit-code mapping at the CLI boundary.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error for logging and exit-code mapping.
type ErrorType string

const (
	// TypeConfiguration indicates a malformed or inconsistent profile.
	// Always raised before a session starts; never a runtime fault.
	TypeConfiguration ErrorType = "configuration"
	// TypeLaunch indicates the platform launcher was unavailable or rejected
	// the game. Fatal, but cleanup still runs first.
	TypeLaunch ErrorType = "launch"
	// TypeIntegration indicates a managed-application or remote-control
	// failure. Logged and absorbed; degrades only that integration.
	TypeIntegration ErrorType = "integration"
)

// Exit codes returned by the gamedeck CLI. A session that reaches Done exits
// zero even when optional integrations degraded along the way.
const (
	ExitOK            = 0
	ExitInternal      = 1
	ExitConfiguration = 2
	ExitLaunch        = 3
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Configuration creates a new configuration error (exit code 2).
func Configuration(message string) *Error {
	return &Error{
		Type:    TypeConfiguration,
		Message: message,
		Context: make(map[string]any),
	}
}

// Launch creates a new launch error (exit code 3).
func Launch(message string, cause error) *Error {
	return &Error{
		Type:    TypeLaunch,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// Integration creates a new integration error. Integration errors are never
// fatal; callers log them and continue.
func Integration(message string, cause error) *Error {
	return &Error{
		Type:    TypeIntegration,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// IsConfiguration reports whether err is (or wraps) a configuration error.
func IsConfiguration(err error) bool {
	return isType(err, TypeConfiguration)
}

// IsLaunch reports whether err is (or wraps) a launch error.
func IsLaunch(err error) bool {
	return isType(err, TypeLaunch)
}

// IsIntegration reports whether err is (or wraps) an integration error.
func IsIntegration(err error) bool {
	return isType(err, TypeIntegration)
}

func isType(err error, t ErrorType) bool {
	var structured *Error
	if errors.As(err, &structured) {
		return structured.Type == t
	}
	return false
}

// ExitCode maps an error to the process exit code for the CLI boundary.
// Interrupts are not errors: an interrupted session that finished cleanup
// returns nil and exits zero.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var structured *Error
	if errors.As(err, &structured) {
		switch structured.Type {
		case TypeConfiguration:
			return ExitConfiguration
		case TypeLaunch:
			return ExitLaunch
		}
	}
	return ExitInternal
}
