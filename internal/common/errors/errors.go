// Package errors provides standardized error handling for the package
// directory service and its submission approval pipeline.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	ErrCodeDuplicatePackage ErrorCode = "DUPLICATE_PACKAGE"

	ErrCodeStorageError ErrorCode = "STORAGE_ERROR"

	ErrCodeQueueFull       ErrorCode = "QUEUE_FULL"
	ErrCodeDeliveryFailure ErrorCode = "DELIVERY_FAILURE"

	ErrCodeUnknownSubmission ErrorCode = "UNKNOWN_SUBMISSION"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable submission validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Submission validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthenticatedError creates a non-retryable missing-identity error.
func NewUnauthenticatedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthenticated,
		Message:   "Caller identity is missing or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicatePackageError creates a non-retryable duplicate-name error.
// Names are unique across the pending and published namespaces.
func NewDuplicatePackageError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicatePackage,
		Message:   "A package with this name already exists or is awaiting review",
		Details:   fmt.Sprintf("name: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError creates a retryable relational store error.
func NewStorageError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageError,
		Message:   "Database operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueFullError creates a delivery error for a saturated hand-off queue.
// The pending record survives; only the interactive notification is lost.
func NewQueueFullError(correlationKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueFull,
		Message:   "Hand-off queue is full, notification not scheduled",
		Details:   fmt.Sprintf("correlationKey: %s", correlationKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailureError creates an error for a failed notification post.
func NewDeliveryFailureError(correlationKey string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailure,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("correlationKey: %s, error: %s", correlationKey, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownSubmissionError creates a non-retryable stale-resolution error.
func NewUnknownSubmissionError(correlationKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownSubmission,
		Message:   "No tracked submission for this correlation key",
		Details:   fmt.Sprintf("correlationKey: %s", correlationKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// httpStatusMapping maps internal error codes to HTTP status codes for the
// web-facing intake and catalog handlers.
var httpStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:  http.StatusBadRequest,
	ErrCodeUnauthenticated:   http.StatusUnauthorized,
	ErrCodeDuplicatePackage:  http.StatusConflict,
	ErrCodeStorageError:      http.StatusInternalServerError,
	ErrCodeQueueFull:         http.StatusServiceUnavailable,
	ErrCodeDeliveryFailure:   http.StatusBadGateway,
	ErrCodeUnknownSubmission: http.StatusNotFound,
}

// HTTPStatus returns the HTTP status code for an error. Unrecognized errors
// map to 500.
func HTTPStatus(err error) int {
	if stdErr, ok := err.(*StandardError); ok {
		if status, exists := httpStatusMapping[stdErr.Code]; exists {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Normalize ensures any error is represented as a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == code
}

// IsRetryable reports whether err is worth retrying at the caller's level.
func IsRetryable(err error) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Retryable
}
