package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeFromKind(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		status int
		want   ErrorCode
	}{
		{"bad request", KindBadRequest, 400, ErrBadRequest},
		{"token", KindToken, 403, ErrForbidden},
		{"no such object", KindNoSuchObject, 404, ErrNotFound},
		{"multiple results", KindMultipleResults, 0, ErrMultipleResults},
		{"rate exceeded", KindRateExceeded, 429, ErrRateLimited},
		{"connection", KindConnection, 0, ErrConnection},
		{"serialization", KindSerialization, 0, ErrSerialization},
		{"http 5xx", KindHTTP, 502, ErrServerError},
		{"http 4xx", KindHTTP, 414, ErrHTTP},
		{"unknown", KindUnknown, 0, ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCodeFromKind(tt.kind, tt.status); got != tt.want {
				t.Errorf("ErrorCodeFromKind(%v, %d) = %v, want %v", tt.kind, tt.status, got, tt.want)
			}
		})
	}
}

func TestErrorCodeIsRetryable(t *testing.T) {
	retryable := []ErrorCode{ErrRateLimited, ErrServerError, ErrTimeout, ErrConnection}
	notRetryable := []ErrorCode{ErrBadRequest, ErrForbidden, ErrNotFound, ErrValidation, ErrSerialization, ErrUnknown}

	for _, code := range retryable {
		if !code.IsRetryable() {
			t.Errorf("%v.IsRetryable() = false, want true", code)
		}
	}
	for _, code := range notRetryable {
		if code.IsRetryable() {
			t.Errorf("%v.IsRetryable() = true, want false", code)
		}
	}
}

func TestErrorCodeSuggestion(t *testing.T) {
	if ErrUnauthorized.Suggestion() != "Run 'rapidpro auth login' to authenticate" {
		t.Errorf("unexpected suggestion %q", ErrUnauthorized.Suggestion())
	}
	if ErrUnknown.Suggestion() != "" {
		t.Error("unknown code should have no suggestion")
	}
}

func TestStructuredErrorFromError_APIError(t *testing.T) {
	err := fmt.Errorf("list: %w", &Error{Kind: KindRateExceeded, StatusCode: 429, RetryAfter: 12, URL: "https://x/runs.json"})
	se := StructuredErrorFromError(err)
	if se.Code != ErrRateLimited || !se.Retryable {
		t.Fatalf("unexpected structured error %+v", se)
	}
	if se.Context["retry_after"] != 12 || se.Context["status_code"] != 429 {
		t.Errorf("unexpected context %+v", se.Context)
	}

	data, jsonErr := json.Marshal(se)
	if jsonErr != nil {
		t.Fatal(jsonErr)
	}
	var decoded map[string]any
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatal(jsonErr)
	}
	if decoded["code"] != "rate_limited" {
		t.Errorf("code = %v", decoded["code"])
	}
}

func TestStructuredErrorFromError_Validation(t *testing.T) {
	for _, err := range []error{&AttributeError{Type: "Contact", Name: "x"}, ErrInvalidIDParam} {
		if se := StructuredErrorFromError(err); se.Code != ErrValidation {
			t.Errorf("%v: code = %v", err, se.Code)
		}
	}
}

func TestStructuredErrorFromError_Other(t *testing.T) {
	if StructuredErrorFromError(nil) != nil {
		t.Error("nil should map to nil")
	}
	if se := StructuredErrorFromError(context.DeadlineExceeded); se.Code != ErrTimeout {
		t.Errorf("deadline code = %v", se.Code)
	}
	if se := StructuredErrorFromError(errors.New("boom")); se.Code != ErrUnknown || se.Message != "boom" {
		t.Errorf("unexpected %+v", se)
	}
	orig := NewStructuredError(ErrNotFound, "gone")
	if StructuredErrorFromError(fmt.Errorf("wrap: %w", orig)) != orig {
		t.Error("structured errors should pass through")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("output", "xml", []string{"text", "json"})
	if err.Code != ErrValidation {
		t.Errorf("code = %v", err.Code)
	}
	if err.Message != `invalid output "xml": must be one of text, json` {
		t.Errorf("message = %q", err.Message)
	}
}
