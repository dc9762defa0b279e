package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents machine-readable error codes for scripted callers.
type ErrorCode string

const (
	// ErrBadRequest indicates the API rejected the request payload (HTTP 400).
	ErrBadRequest ErrorCode = "bad_request"
	// ErrForbidden indicates the API token was rejected (HTTP 403).
	ErrForbidden ErrorCode = "forbidden"
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound ErrorCode = "not_found"
	// ErrMultipleResults indicates a single-object lookup matched several objects.
	ErrMultipleResults ErrorCode = "multiple_results"
	// ErrRateLimited indicates too many requests (HTTP 429).
	ErrRateLimited ErrorCode = "rate_limited"
	// ErrServerError indicates an internal server error (HTTP 5xx).
	ErrServerError ErrorCode = "server_error"
	// ErrHTTP indicates any other unexpected HTTP status.
	ErrHTTP ErrorCode = "http_error"
	// ErrConnection indicates the host could not be reached.
	ErrConnection ErrorCode = "connection"
	// ErrSerialization indicates a response did not match the expected shape.
	ErrSerialization ErrorCode = "serialization"
	// ErrValidation indicates local input validation failed.
	ErrValidation ErrorCode = "validation_failed"
	// ErrUnauthorized indicates no credentials are configured.
	ErrUnauthorized ErrorCode = "unauthorized"
	// ErrTimeout indicates the request timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrTimeout, ErrConnection:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Run 'rapidpro auth login' to authenticate"
	case ErrForbidden:
		return "Check that the API token is valid for this workspace"
	case ErrNotFound:
		return "Verify the UUID, URN or key exists"
	case ErrMultipleResults:
		return "Narrow the lookup to a single object"
	case ErrRateLimited:
		return "Wait for the indicated time or pass --retry"
	case ErrValidation:
		return "Check the input values"
	case ErrBadRequest:
		return "Check the request fields and values"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrConnection:
		return "Check the host setting and network connectivity"
	case ErrTimeout:
		return "The request timed out; check network connectivity and retry"
	default:
		return ""
	}
}

// ErrorCodeFromKind maps an error kind and HTTP status to an ErrorCode.
func ErrorCodeFromKind(kind Kind, statusCode int) ErrorCode {
	switch kind {
	case KindBadRequest:
		return ErrBadRequest
	case KindToken:
		return ErrForbidden
	case KindNoSuchObject:
		return ErrNotFound
	case KindMultipleResults:
		return ErrMultipleResults
	case KindRateExceeded:
		return ErrRateLimited
	case KindConnection:
		return ErrConnection
	case KindSerialization:
		return ErrSerialization
	case KindHTTP:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrHTTP
	default:
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError creates a StructuredError for input validation failures,
// including the list of allowed values so callers can self-correct.
func NewValidationError(field string, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Retryable:     false,
		Suggestion:    fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

// StructuredErrorFromError attempts to convert any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		code := ErrorCodeFromKind(apiErr.Kind, apiErr.StatusCode)
		out := NewStructuredError(code, apiErr.Error())
		ctx := map[string]any{}
		if apiErr.StatusCode != 0 {
			ctx["status_code"] = apiErr.StatusCode
		}
		if apiErr.URL != "" {
			ctx["url"] = apiErr.URL
		}
		if apiErr.Kind == KindRateExceeded {
			ctx["retry_after"] = apiErr.RetryAfter
		}
		if apiErr.Kind == KindBadRequest {
			ctx["errors"] = apiErr.Errors
		}
		if len(ctx) > 0 {
			out.Context = ctx
		}
		return out
	}

	var attrErr *AttributeError
	if errors.As(err, &attrErr) || errors.Is(err, ErrInvalidIDParam) {
		return NewStructuredError(ErrValidation, err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewStructuredError(ErrTimeout, err.Error())
	}

	return &StructuredError{
		Code:    ErrUnknown,
		Message: err.Error(),
	}
}
