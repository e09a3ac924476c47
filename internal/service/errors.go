package service

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses at the handler layer.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden means the caller may not perform the operation on this record.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidCredentials covers unknown user, wrong password and
	// deactivated accounts, without distinguishing them to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a user-facing rejection of a request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
