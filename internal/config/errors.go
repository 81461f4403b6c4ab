package config

import (
	"errors"
	"fmt"
)

// SetupHint is shown to the user whenever the configuration cannot be used.
const SetupHint = "Please run 'daynight setup' to create or repair the configuration."

var (
	// ErrNotFound indicates the configuration file does not exist
	ErrNotFound = errors.New("configuration file not found")

	// ErrMalformed indicates the file could not be parsed
	ErrMalformed = errors.New("configuration file is malformed")

	// ErrMissingField indicates a required key is absent
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField indicates a key holds an unusable value
	ErrInvalidField = errors.New("invalid value")
)

// Error is a configuration error. It is always fatal for the run command.
type Error struct {
	Path  string // Configuration file path
	Field string // Offending key (e.g. "camera.ip"), empty for file-level errors
	Err   error  // Underlying cause
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration %s: %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}

func missingField(path, field string) *Error {
	return &Error{Path: path, Field: field, Err: ErrMissingField}
}

func invalidField(path, field, format string, args ...any) *Error {
	return &Error{Path: path, Field: field, Err: fmt.Errorf("%w: %s", ErrInvalidField, fmt.Sprintf(format, args...))}
}
