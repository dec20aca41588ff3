package triage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClassification matches every error returned by Classify.
var ErrClassification = errors.New("triage: classification failed")

// ValidationError reports request fields that are missing or blank.
// The backend is never called when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "triage: missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrClassification }

// BackendUnavailableError wraps a failed backend call: transport, API
// error, or an expired context.
type BackendUnavailableError struct {
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("triage: backend unavailable: %v", e.Err)
}

func (e *BackendUnavailableError) Unwrap() []error { return []error{ErrClassification, e.Err} }

// SchemaValidationError means the backend answered, but not with a valid
// verdict. Raw holds the reply as received.
type SchemaValidationError struct {
	Raw    string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return "triage: invalid model reply: " + e.Reason
}

func (e *SchemaValidationError) Unwrap() error { return ErrClassification }

// Kind names the error class for logs and CLI output.
func Kind(err error) string {
	var (
		ve *ValidationError
		be *BackendUnavailableError
		se *SchemaValidationError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &be):
		return "backend_unavailable"
	case errors.As(err, &se):
		return "schema_validation"
	default:
		return "unknown"
	}
}
