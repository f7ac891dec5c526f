// Package errors provides standardized error values for the enrollment portal.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeStudentLookupFailed      ErrorCode = "STUDENT_LOOKUP_FAILED"
	ErrCodeStudentWriteFailed       ErrorCode = "STUDENT_WRITE_FAILED"
	ErrCodeStudentValidationFailed  ErrorCode = "STUDENT_VALIDATION_FAILED"
	ErrCodeDuplicateStudentID       ErrorCode = "DUPLICATE_STUDENT_ID"
	ErrCodeReferenceDataLoadFailed  ErrorCode = "REFERENCE_DATA_LOAD_FAILED"
	ErrCodeStoreTimeout             ErrorCode = "STORE_TIMEOUT"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeInvalidRequest           ErrorCode = "INVALID_REQUEST"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeExternalService          ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e after attaching key=value.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewStudentLookupFailedError wraps a failed existence check. Deadline
// overruns are reported as STORE_TIMEOUT.
func NewStudentLookupFailedError(studentID string, err error) *StandardError {
	if isTimeout(err) {
		return NewStoreTimeoutError("lookup", err)
	}
	return &StandardError{
		Code:      ErrCodeStudentLookupFailed,
		Message:   "Student lookup failed",
		Details:   fmt.Sprintf("studentId: %s, error: %s", studentID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewStudentWriteFailedError(studentID string, err error) *StandardError {
	if isTimeout(err) {
		return NewStoreTimeoutError("write", err)
	}
	return &StandardError{
		Code:      ErrCodeStudentWriteFailed,
		Message:   "Student record write failed",
		Details:   fmt.Sprintf("studentId: %s, error: %s", studentID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewStudentValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStudentValidationFailed,
		Message:   "Student data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDuplicateStudentIDError(studentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateStudentID,
		Message:   "Student ID already exists",
		Details:   fmt.Sprintf("studentId: %s", studentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewReferenceDataLoadFailedError(collection string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReferenceDataLoadFailed,
		Message:   "Failed to load reference data",
		Details:   fmt.Sprintf("collection: %s, error: %s", collection, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewStoreTimeoutError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreTimeout,
		Message:   "Document store timeout",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Classification
// ==========================

func isTimeout(err error) bool {
	return stderrors.Is(err, context.DeadlineExceeded)
}

// AsStandardError returns err as a *StandardError, wrapping unknown errors as
// INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStudentLookupFailed,
		ErrCodeStudentWriteFailed,
		ErrCodeReferenceDataLoadFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeStoreTimeout:
		return 2

	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DUPLICATE"):
		return "CONFLICT"
	case strings.Contains(codeStr, "STUDENT") || strings.Contains(codeStr, "STORE") ||
		strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "REFERENCE"):
		return "STORE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "EXTERNAL"):
		return "INTEGRATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps an error code to the status the JSON API responds with.
func HTTPStatus(code ErrorCode) int {
	switch GetErrorCategory(code) {
	case "VALIDATION":
		return http.StatusUnprocessableEntity
	case "CONFLICT":
		return http.StatusConflict
	case "STORE", "INTEGRATION":
		if code == ErrCodeStoreTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
