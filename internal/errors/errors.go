// Package errors consolidates error definitions for the flight stack.
//
// This file provides:
// - Sentinel errors for conditions callers branch on
// - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
)

var (
	// Session lifecycle errors
	ErrSessionActive = errors.New("logging session already active")

	// Validation errors
	ErrInvalidSettings = errors.New("invalid settings")

	// Log file errors
	ErrMalformedLine  = errors.New("malformed log line")
	ErrSchemaMismatch = errors.New("log header does not match schema")
)

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
