package errors

import (
	stderrors "errors"
	"fmt"
)

// Fixed validation messages returned by the gateway client.
const (
	MsgTimeZone          = "Dates must be provided in the Etc/GMT+8 time zone"
	MsgStartAfterEnd     = "startTime cannot be greater than endTime"
	MsgTestChargeNotTest = "You cannot make a test subscription charge if you're not in test mode"
)

// ValidationError represents input validation errors.
// They are raised before any network call and are fixed by changing the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewRequiredError reports a missing required parameter.
func NewRequiredError(field string) *ValidationError {
	return NewValidationError(field, fmt.Sprintf("The %s parameter is required", field))
}

// NewTimeZoneError reports a date supplied outside the gateway zone.
func NewTimeZoneError(field string) *ValidationError {
	return NewValidationError(field, MsgTimeZone)
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsValidationError reports whether err is, or wraps, a validation error.
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}
