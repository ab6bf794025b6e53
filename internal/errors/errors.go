// Package errors provides centralized error types and exit codes for glyphkit.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes for different error categories.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitConfigError  = 2
	ExitInputError   = 3
	ExitToolError    = 4
)

// GlyphError is the base error type for all glyphkit-specific errors.
type GlyphError struct {
	Code    int
	Message string
	Cause   error
}

// Error returns the error message, including the cause if present.
func (e *GlyphError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *GlyphError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(msg string) *GlyphError {
	return &GlyphError{
		Code:    ExitConfigError,
		Message: msg,
	}
}

// NewConfigErrorWithCause creates a new configuration error with an underlying cause.
func NewConfigErrorWithCause(msg string, cause error) *GlyphError {
	return &GlyphError{
		Code:    ExitConfigError,
		Message: msg,
		Cause:   cause,
	}
}

// NewInputErrorWithCause creates a new input error with an underlying cause.
func NewInputErrorWithCause(msg string, cause error) *GlyphError {
	return &GlyphError{
		Code:    ExitInputError,
		Message: msg,
		Cause:   cause,
	}
}

// NewToolErrorWithCause creates an error for an external tool that could not be started.
func NewToolErrorWithCause(msg string, cause error) *GlyphError {
	return &GlyphError{
		Code:    ExitToolError,
		Message: msg,
		Cause:   cause,
	}
}

// NewGeneralErrorWithCause creates a new general error with an underlying cause.
func NewGeneralErrorWithCause(msg string, cause error) *GlyphError {
	return &GlyphError{
		Code:    ExitGeneralError,
		Message: msg,
		Cause:   cause,
	}
}

// IsInputError checks if an error is an input error.
func IsInputError(err error) bool {
	return hasCode(err, ExitInputError)
}

// IsToolError checks if an error is a tool start error.
func IsToolError(err error) bool {
	return hasCode(err, ExitToolError)
}

func hasCode(err error, code int) bool {
	var gErr *GlyphError
	if stderrors.As(err, &gErr) {
		return gErr.Code == code
	}
	return false
}

// GetExitCode returns the exit code for an error.
// If the error chain holds no GlyphError, it returns ExitGeneralError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var gErr *GlyphError
	if stderrors.As(err, &gErr) {
		return gErr.Code
	}
	return ExitGeneralError
}
