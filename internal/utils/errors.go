package utils

import (
	"fmt"
)

// UserError carries a user-facing message with an optional suggested fix.
// The CLI prints these without a stack of wrapped internals.
type UserError struct {
	Message  string
	Solution string
	Err      error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Solution != "" {
		msg += fmt.Sprintf("\n\n💡 Solution: %s", e.Solution)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new UserError.
func NewUserError(message, solution string, err error) *UserError {
	return &UserError{
		Message:  message,
		Solution: solution,
		Err:      err,
	}
}

// ValidationError reports an invalid value in user-supplied input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
