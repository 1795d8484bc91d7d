package apperrors

import "errors"

// Common errors
var (
	// Client input errors
	ErrMissingField     = errors.New("missing required field")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidRole      = errors.New("invalid role")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")

	// External collaborator errors
	ErrEmailSend = errors.New("email dispatch failed")
)

// Admin errors
var (
	ErrAdminNotFound     = errors.New("no admin account found with this email")
	ErrResetTokenInvalid = errors.New("invalid or expired reset code")
)

// Bus errors
var (
	ErrBusNotFound        = errors.New("bus not found")
	ErrDuplicateBusNumber = errors.New("bus number already exists")
)

// Student errors
var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateRollNo   = errors.New("roll number already exists")
	ErrBusRefInvalid     = errors.New("selected bus does not exist")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation failure naming the offending field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewMissingFieldError creates a client error for absent required fields
func NewMissingFieldError(message string) error {
	return &CustomError{
		Err:     ErrMissingField,
		Message: message,
	}
}

// Field returns the offending field name carried by a validation error, if any
func Field(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}
