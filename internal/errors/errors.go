// Package errors provides the application error type for the Carteira API.
// Every service and store failure is an *AppError so that callers can tell
// the failure category apart and clients never see internal details.
package errors

import (
	"errors"
	"net/http"
)

// Category groups error codes into the classes reported to users.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryAuth       Category = "auth"
	CategoryNotFound   Category = "not_found"
	CategoryRemote     Category = "remote"
	CategoryConflict   Category = "conflict"
	CategoryInternal   Category = "internal"
)

// AppError represents a structured application error with an error code,
// human-readable message, category, HTTP status code, and optional internal error.
type AppError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Category   Category `json:"category"`
	StatusCode int      `json:"-"`
	Internal   error    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so a wrapped
// copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Category:   sentinel.Category,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Category:   sentinel.Category,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// CategoryOf classifies err. Errors that are not AppErrors are internal.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryInternal
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "AUTH_ERROR", Message: "Authentication required", Category: CategoryAuth, StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", Category: CategoryAuth, StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", Category: CategoryAuth, StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", Category: CategoryValidation, StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", Category: CategoryNotFound, StatusCode: http.StatusNotFound}
	ErrRemote         = &AppError{Code: "REMOTE_ERROR", Message: "The data store could not complete the request", Category: CategoryRemote, StatusCode: http.StatusBadGateway}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", Category: CategoryInternal, StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", Category: CategoryNotFound, StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", Category: CategoryConflict, StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrEntryNotFound    = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Entry not found", Category: CategoryNotFound, StatusCode: http.StatusNotFound}
	ErrMutationInFlight = &AppError{Code: "MUTATION_IN_FLIGHT", Message: "Another change to this entry is still being saved", Category: CategoryConflict, StatusCode: http.StatusConflict}
	ErrExportDisabled   = &AppError{Code: "EXPORT_DISABLED", Message: "Spreadsheet export is not configured", Category: CategoryInternal, StatusCode: http.StatusNotImplemented}
)
