// Package apperr provides the coded error taxonomy used across the
// screening engine.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error kind recognized by the core, per the
// engine's error-handling design.
type Code string

const (
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeMalformedRecord     Code = "MALFORMED_RECORD"
	CodeStorageUnavailable  Code = "STORAGE_UNAVAILABLE"
	CodeScoringError        Code = "SCORING_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeInternal            Code = "INTERNAL"
	CodeRateLimited         Code = "RATE_LIMITED"
)

// ServiceError is a structured error carrying a code, message, HTTP
// status, and optional details for the HTTP surface.
type ServiceError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code Code, message string, httpStatus int) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func Wrap(code Code, message string, httpStatus int, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// InvalidInput is a malformed request: bad query params, a submit body
// that names both items and s3InputPath, out-of-range config.
func InvalidInput(field, reason string) *ServiceError {
	return New(CodeInvalidInput, "invalid input", http.StatusBadRequest).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// MalformedRecord is a single NDJSON line that failed to parse. It is
// recovered locally by the bulk job worker: counted, line skipped.
func MalformedRecord(line int, err error) *ServiceError {
	return Wrap(CodeMalformedRecord, "malformed record", http.StatusUnprocessableEntity, err).
		WithDetails("line", line)
}

// StorageUnavailable wraps an object-store read/write failure. The
// enclosing bulk job transitions to FAILED with this as its cause.
func StorageUnavailable(operation string, err error) *ServiceError {
	return Wrap(CodeStorageUnavailable, "object store unavailable", http.StatusServiceUnavailable, err).
		WithDetails("operation", operation)
}

// ScoringError wraps an unexpected failure scoring one item. The item
// is treated as zero matches; the job continues.
func ScoringError(candidateID string, err error) *ServiceError {
	return Wrap(CodeScoringError, "scoring failed", http.StatusInternalServerError, err).
		WithDetails("candidateId", candidateID)
}

func NotFound(resource, id string) *ServiceError {
	return New(CodeNotFound, "resource not found", http.StatusNotFound).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

func Internal(message string, err error) *ServiceError {
	return Wrap(CodeInternal, message, http.StatusInternalServerError, err)
}

// RateLimited reports a client exceeding its request budget.
func RateLimited() *ServiceError {
	return New(CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests)
}

// IsServiceError reports whether err (or any error it wraps) is a
// *ServiceError.
func IsServiceError(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}

// As extracts the *ServiceError from err's chain, if any.
func As(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// HTTPStatus returns the HTTP status code to report for err, defaulting
// to 500 when err is not a *ServiceError.
func HTTPStatus(err error) int {
	if svcErr := As(err); svcErr != nil {
		return svcErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
