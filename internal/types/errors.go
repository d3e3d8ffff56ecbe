package types

import (
	"errors"
	"fmt"
)

// ValidationSource tells whether invalid data came from the caller or the provider
type ValidationSource string

const (
	SourceRequest  ValidationSource = "request"
	SourceProvider ValidationSource = "provider"
)

// ErrResourceUnavailable is returned when a backing resource such as the log file is missing
var ErrResourceUnavailable = errors.New("log source unavailable")

// ValidationError represents malformed caller input or malformed provider output
type ValidationError struct {
	Field   string
	Message string
	Source  ValidationSource
}

func (e *ValidationError) Error() string {
	if e.Source == SourceProvider {
		return fmt.Sprintf("invalid provider output: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UpstreamError represents a failure talking to the generation provider
type UpstreamError struct {
	Provider   string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s request timed out: %v", e.Provider, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsRequestValidation reports whether err is a validation error caused by caller input
func IsRequestValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Source == SourceRequest
}
