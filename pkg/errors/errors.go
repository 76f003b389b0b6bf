// Package errors defines custom error types and error handling utilities for the PSL risk service.
// This package provides structured error types that map to API error codes and HTTP status codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/turtacn/pslrisk/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// ServiceError represents a structured error with additional metadata
type ServiceError interface {
	error

	// Code returns the API error code
	Code() constants.ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) ServiceError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) ServiceError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        constants.ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface
func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *baseError) Code() constants.ErrorCode { return e.code }

func (e *baseError) HTTPStatus() int { return e.httpStatus }

func (e *baseError) Description() string { return e.description }

func (e *baseError) Unwrap() error { return e.cause }

// WithCause adds a cause error to the error chain
func (e *baseError) WithCause(cause error) ServiceError {
	e.cause = cause
	return e
}

// WithMetadata adds additional context metadata
func (e *baseError) WithMetadata(key string, value interface{}) ServiceError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} { return e.metadata }

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new ServiceError with the specified parameters
func NewError(code constants.ErrorCode, httpStatus int, description string, message string) ServiceError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) ServiceError {
	return NewError(
		constants.ErrCodeInvalidRequest,
		http.StatusBadRequest,
		"The request is missing a required parameter, includes an invalid parameter value, or is otherwise malformed.",
		message,
	)
}

// ErrNotFound creates a not_found error
func ErrNotFound(message string) ServiceError {
	return NewError(
		constants.ErrCodeNotFound,
		http.StatusNotFound,
		"The requested resource was not found.",
		message,
	)
}

// ErrServerError creates a server_error error carrying the underlying message
func ErrServerError(message string) ServiceError {
	return NewError(
		constants.ErrCodeServerError,
		http.StatusInternalServerError,
		"The server encountered an unexpected condition that prevented it from fulfilling the request.",
		message,
	)
}

// ErrTemporarilyUnavailable creates a temporarily_unavailable error
func ErrTemporarilyUnavailable(message string) ServiceError {
	return NewError(
		constants.ErrCodeTemporarilyUnavailable,
		http.StatusServiceUnavailable,
		"The server is currently unable to handle the request due to an unavailable dependency.",
		message,
	)
}

// ================================================================================
// Domain-Specific Error Constructors
// ================================================================================

// ErrMissingRequiredParameter creates a missing required parameter error
func ErrMissingRequiredParameter(paramName string) ServiceError {
	return ErrInvalidRequest(fmt.Sprintf("Missing required parameter: %s", paramName)).
		WithMetadata("parameter", paramName)
}

// ErrInvalidParameterFormat creates an invalid parameter format error
func ErrInvalidParameterFormat(paramName string, expectedFormat string) ServiceError {
	return ErrInvalidRequest(fmt.Sprintf("Invalid format for parameter '%s': expected %s", paramName, expectedFormat)).
		WithMetadata("parameter", paramName).
		WithMetadata("expected_format", expectedFormat)
}

// ErrScoreNotFound creates an error for a tenant that has never been scored
func ErrScoreNotFound(tenantID string) ServiceError {
	return ErrNotFound(fmt.Sprintf("No risk score found for tenant: %s", tenantID)).
		WithMetadata("tenant_id", tenantID)
}

// ErrAlertNotFound creates an error for an unknown or foreign alert
func ErrAlertNotFound(tenantID, alertID string) ServiceError {
	return ErrNotFound(fmt.Sprintf("Risk alert not found: %s", alertID)).
		WithMetadata("tenant_id", tenantID).
		WithMetadata("alert_id", alertID)
}

// ErrInvalidAlertTransition creates an error for a disallowed alert status change
func ErrInvalidAlertTransition(alertID, from, to string) ServiceError {
	return ErrInvalidRequest(fmt.Sprintf("Cannot move alert %s from %s to %s", alertID, from, to)).
		WithMetadata("alert_id", alertID).
		WithMetadata("from", from).
		WithMetadata("to", to)
}

// ErrInvalidFeatures creates an error for a feature vector that failed validation
func ErrInvalidFeatures(problems []string) ServiceError {
	return ErrInvalidRequest(fmt.Sprintf("Feature vector failed validation: %d problem(s)", len(problems))).
		WithMetadata("problems", problems)
}

// ErrCacheUnavailable creates a cache failure error
func ErrCacheUnavailable(reason string) ServiceError {
	return ErrTemporarilyUnavailable(fmt.Sprintf("Score cache unavailable: %s", reason)).
		WithMetadata("reason", reason)
}

// ErrRepository creates a storage failure error
func ErrRepository(operation string) ServiceError {
	return ErrServerError(fmt.Sprintf("Repository operation failed: %s", operation)).
		WithMetadata("operation", operation)
}

// ErrDatabaseConnectionFailed creates a database connection failed error
func ErrDatabaseConnectionFailed(reason string) ServiceError {
	return ErrServerError(fmt.Sprintf("Failed to connect to database: %s", reason)).
		WithMetadata("reason", reason)
}

// ================================================================================
// Error Validation Utilities
// ================================================================================

// AsServiceError attempts to extract a ServiceError from an error chain
func AsServiceError(err error) (ServiceError, bool) {
	var svcErr ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// WrapError wraps a generic error into a ServiceError
func WrapError(err error, code constants.ErrorCode, message string) ServiceError {
	var httpStatus int

	switch code {
	case constants.ErrCodeInvalidRequest:
		httpStatus = http.StatusBadRequest
	case constants.ErrCodeNotFound:
		httpStatus = http.StatusNotFound
	case constants.ErrCodeTemporarilyUnavailable:
		httpStatus = http.StatusServiceUnavailable
	default:
		httpStatus = http.StatusInternalServerError
	}

	return NewError(code, httpStatus, message, message).WithCause(err)
}

// IsNotFoundError checks if an error is a not found error.
func IsNotFoundError(err error) bool {
	if svcErr, ok := AsServiceError(err); ok {
		return svcErr.Code() == constants.ErrCodeNotFound
	}
	return false
}

// ShouldLogError determines if an error should be logged based on severity
func ShouldLogError(err error) bool {
	if svcErr, ok := AsServiceError(err); ok {
		return svcErr.HTTPStatus() >= 500
	}
	return true
}

// ================================================================================
// Error Response Builder
// ================================================================================

// ErrorResponse represents the JSON structure for error responses
type ErrorResponse struct {
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Message          string                 `json:"message,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts a ServiceError to an ErrorResponse
func ToErrorResponse(err ServiceError) *ErrorResponse {
	resp := &ErrorResponse{
		Error:            string(err.Code()),
		ErrorDescription: err.Description(),
		Message:          err.Error(),
	}
	if len(err.Metadata()) > 0 {
		resp.Metadata = err.Metadata()
	}
	return resp
}

// ToGenericErrorResponse converts any error to an ErrorResponse.
// Unknown errors become a generic server error that keeps the underlying message.
func ToGenericErrorResponse(err error) *ErrorResponse {
	if svcErr, ok := AsServiceError(err); ok {
		return ToErrorResponse(svcErr)
	}
	return ToErrorResponse(ErrServerError(err.Error()))
}

// StatusOf returns the HTTP status that should be used for err
func StatusOf(err error) int {
	if svcErr, ok := AsServiceError(err); ok {
		return svcErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

//Personal.AI order the ending
