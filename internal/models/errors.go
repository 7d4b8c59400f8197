package models

import (
	"errors"
	"fmt"
)

// ErrForecastTooShort means the upstream returned fewer than 2 daily entries,
// so there is no "tomorrow" to report on.
var ErrForecastTooShort = errors.New("forecast has no tomorrow entry")

// ValidationError marks bad user input. It is recoverable and surfaced back
// to the user as a formatted reply, never as a crash.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ApiError marks an upstream dependency failure. The current user's pipeline
// step aborts; the process keeps running.
type ApiError struct {
	Service string
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Service, e.Message)
}

// ConfigurationError marks a missing required credential. It is raised on the
// first use of the dependent client, not at startup.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
