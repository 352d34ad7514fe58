package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates that the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrConcurrency indicates a transient race (sequence or row contention) that may succeed on retry.
var ErrConcurrency = errors.New("concurrent modification")

// ErrConsistency indicates that persisted values disagree with what the pricing rules derive.
var ErrConsistency = errors.New("inconsistent totals")

// ErrInsufficientStock indicates a stock decrement below zero while oversell is disabled.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and a message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause so errors.Is keeps working through AppError.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the name of the missing entity.
func NewNotFoundError(entity string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: entity + " not found", Err: ErrNotFound}
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}
