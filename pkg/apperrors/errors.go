package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type crossing service boundaries. Message is safe to
// show to clients; Err holds the underlying cause and is only logged.
type AppError struct {
	Code       ErrorCode
	Domain     string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Code, e.Domain, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Code, e.Domain, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError without an underlying cause.
func New(code ErrorCode, domain, message string, status int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPStatus: status}
}

// Wrap creates an AppError around an underlying error.
func Wrap(err error, code ErrorCode, domain, message string, status int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPStatus: status, Err: err}
}

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewNotFoundError reports a missing resource (404).
func NewNotFoundError(message string) *AppError {
	return New(CodeNotFound, "resource", message, http.StatusNotFound)
}

// ErrNotFound wraps a repository not-found error (404).
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// NewBadRequestError reports invalid client input (400).
func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, "validation", message, http.StatusBadRequest)
}

// NewPreconditionError reports a missing required parameter (400).
func NewPreconditionError(message string) *AppError {
	return New(CodePreconditionFailed, "validation", message, http.StatusBadRequest)
}

// NewForbiddenError reports an authorization failure (403).
func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, "auth", message, http.StatusForbidden)
}

// NewUnauthorizedError reports an authentication failure (401).
func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

// TranscodeError wraps a failed receipt transcode (422).
func TranscodeError(err error) *AppError {
	return Wrap(err, CodeTranscodeFailed, "receipt", "Uploaded file could not be processed", http.StatusUnprocessableEntity)
}

// StorageError wraps a failed object store write (500).
func StorageError(err error) *AppError {
	return Wrap(err, CodeStorageError, "storage", "Failed to store file", http.StatusInternalServerError)
}

// InternalError wraps any unexpected error (500).
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

// ErrAlreadyExists wraps a uniqueness violation (409).
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusForbidden,
)
