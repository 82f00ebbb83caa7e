package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Enrollment (KRS) errors
var (
	ErrEnrollmentNotFound = fmt.Errorf("%w: enrollment", ErrResourceNotFound)
	ErrOfferingNotFound   = fmt.Errorf("%w: offering", ErrResourceNotFound)

	// ErrInvalidState is returned when an operation is attempted from the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid enrollment state")
	// ErrAlreadySubmitted is the InvalidState raised by submit and draft edits outside of draft.
	ErrAlreadySubmitted = fmt.Errorf("%w: enrollment already submitted", ErrInvalidState)

	ErrCapacityExceeded = errors.New("offering capacity exceeded")

	ErrEmptySelection   = fmt.Errorf("%w: no offerings selected", ErrValidationFailed)
	ErrTermMismatch     = fmt.Errorf("%w: offering belongs to another term", ErrValidationFailed)
	ErrRejectionNoteReq = fmt.Errorf("%w: rejection note is required", ErrValidationFailed)
)

// Grade (KHS) errors
var (
	ErrInvalidLetterGrade  = fmt.Errorf("%w: letter grade", ErrValidationFailed)
	ErrInvalidNumericGrade = fmt.Errorf("%w: numeric grade must be within [0, 4]", ErrValidationFailed)
	ErrGradeMismatch       = fmt.Errorf("%w: numeric grade does not match letter grade", ErrValidationFailed)
)

// Exam card errors
var (
	ErrExamCardUnavailable = fmt.Errorf("%w: exam card requires an approved KRS and settled bills", ErrInvalidState)
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
