// Package errors defines the tagged error taxonomy shared by the usecase and delivery layers.
package errors

import (
	"github.com/pkg/errors"
)

// Kind classifies an AppError. The delivery layer switches on it to pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateEmail
	KindInvalidCredentials
	KindUserNotFound
	KindMissingToken
	KindInvalidToken
	KindTooManyRequests
	KindStorageUnavailable
)

var kindNames = map[Kind]string{
	KindInternal:           "Internal",
	KindValidation:         "Validation",
	KindDuplicateEmail:     "DuplicateEmail",
	KindInvalidCredentials: "InvalidCredentials",
	KindUserNotFound:       "UserNotFound",
	KindMissingToken:       "MissingToken",
	KindInvalidToken:       "InvalidToken",
	KindTooManyRequests:    "TooManyRequests",
	KindStorageUnavailable: "StorageUnavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Unknown"
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Error classification
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() any      // Field-level details for client errors (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   any
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
	}
}

func (e *BaseError) Error() string {
	return e.message
}

// Is matches any BaseError with the same error code, so copies made by WithDetails
// still satisfy errors.Is against the catalogue value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) Kind() Kind {
	return e.kind
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() any {
	return e.details
}

// WithDetails returns a copy carrying client-facing details such as field errors.
func (e *BaseError) WithDetails(details any) *BaseError {
	return &BaseError{
		kind:      e.kind,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// WithMessage returns a copy with a different user-facing message.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		kind:      e.kind,
		errorCode: e.errorCode,
		message:   message,
		details:   e.details,
	}
}

// Predefined error types
var (
	ErrValidationFailed = NewBaseError(
		KindValidation,
		"VALIDATION_ERROR",
		"Validation error",
	)

	ErrDuplicateEmail = NewBaseError(
		KindDuplicateEmail,
		"DUPLICATE_EMAIL",
		"Email already exists",
	)

	// ErrInvalidCredentials is returned for both an unknown email and a wrong password.
	ErrInvalidCredentials = NewBaseError(
		KindInvalidCredentials,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
	)

	ErrUserNotFound = NewBaseError(
		KindUserNotFound,
		"USER_NOT_FOUND",
		"User not found",
	)

	ErrMissingToken = NewBaseError(
		KindMissingToken,
		"MISSING_TOKEN",
		"Access token is required",
	)

	// ErrInvalidToken covers malformed, tampered and expired tokens alike.
	ErrInvalidToken = NewBaseError(
		KindInvalidToken,
		"INVALID_TOKEN",
		"Invalid token",
	)

	ErrTooManyRequests = NewBaseError(
		KindTooManyRequests,
		"TOO_MANY_REQUESTS",
		"Too many attempts, please try again later",
	)

	ErrStorageUnavailable = NewBaseError(
		KindStorageUnavailable,
		"STORAGE_UNAVAILABLE",
		"Service temporarily unavailable",
	)

	ErrInternalError = NewBaseError(
		KindInternal,
		"INTERNAL_ERROR",
		"Internal server error",
	)
)

// KindOf returns the Kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindInternal
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed: "+e.details).Error()
}

func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

func (e *DatabaseExecuteError) Message() string {
	return "Internal server error"
}

// Details is never exposed to clients for internal errors.
func (e *DatabaseExecuteError) Details() any {
	return nil
}
