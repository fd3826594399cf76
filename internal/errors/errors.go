// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// PreconditionError is returned when a campaign operation is requested in a
// state that cannot accept it (not connected, no contacts, already sending).
type PreconditionError struct {
    Reason string
}

func (e *PreconditionError) Error() string {
    return e.Reason
}

// ValidationError marks malformed client input: a bad upload, an unparseable
// start request, an invalid schedule time.
type ValidationError struct {
    Reason string
}

func (e *ValidationError) Error() string {
    return e.Reason
}

// Helper constructors
func NewPrecondition(format string, args ...any) error {
    return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

func NewValidation(format string, args ...any) error {
    return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// BadRequest reports whether err should surface as HTTP 400 with its message
// verbatim. Anything else is an internal error and gets a generic body.
func BadRequest(err error) bool {
    var pe *PreconditionError
    var ve *ValidationError
    return errors.As(err, &pe) || errors.As(err, &ve)
}
