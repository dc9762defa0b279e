package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies every failure the client reports.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindBadRequest
	KindToken
	KindNoSuchObject
	KindMultipleResults
	KindRateExceeded
	KindHTTP
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindBadRequest:
		return "bad_request"
	case KindToken:
		return "token"
	case KindNoSuchObject:
		return "no_such_object"
	case KindMultipleResults:
		return "multiple_results"
	case KindRateExceeded:
		return "rate_exceeded"
	case KindHTTP:
		return "http"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

const (
	msgConnection      = "Unable to connect to host"
	msgToken           = "Authentication with provided token failed"
	msgNoSuchObject    = "No such object exists"
	msgMultipleResults = "Request for single object returned multiple objects"
	msgRateExceeded    = "You have exceeded the number of requests allowed per org in a given time window. " +
		"Please wait %d seconds before making further requests"
)

// ErrInvalidIDParam is returned when an identifying parameter set does not
// contain exactly one key.
var ErrInvalidIDParam = errors.New("exactly one identifier parameter is required")

// Error is the single error type returned for request and serialization failures.
type Error struct {
	Kind       Kind
	StatusCode int
	// Errors holds the decoded 400 payload: a string, a list or a field map.
	Errors any
	// FieldOrder lists the keys of a field map payload in the order the
	// server sent them.
	FieldOrder []string
	// RetryAfter is the server's Retry-After value in seconds for rate limit errors.
	RetryAfter int
	URL        string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConnection:
		return msgConnection
	case KindBadRequest:
		return strings.Join(e.Messages(), ". ")
	case KindToken:
		return msgToken
	case KindNoSuchObject:
		return msgNoSuchObject
	case KindMultipleResults:
		return msgMultipleResults
	case KindRateExceeded:
		return fmt.Sprintf(msgRateExceeded, e.RetryAfter)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Messages flattens a bad request payload. Field maps are visited in
// FieldOrder, then any remaining keys in sorted order.
func (e *Error) Messages() []string {
	switch v := e.Errors.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []any:
		return stringList(v)
	case []string:
		return v
	case map[string]any:
		keys := make([]string, 0, len(v))
		seen := make(map[string]bool, len(v))
		for _, k := range e.FieldOrder {
			if _, ok := v[k]; ok && !seen[k] {
				keys = append(keys, k)
				seen[k] = true
			}
		}
		rest := make([]string, 0, len(v)-len(keys))
		for k := range v {
			if !seen[k] {
				rest = append(rest, k)
			}
		}
		sort.Strings(rest)
		keys = append(keys, rest...)

		var msgs []string
		for _, k := range keys {
			switch fieldErrs := v[k].(type) {
			case string:
				msgs = append(msgs, fieldErrs)
			case []any:
				msgs = append(msgs, stringList(fieldErrs)...)
			default:
				msgs = append(msgs, fmt.Sprint(fieldErrs))
			}
		}
		return msgs
	default:
		return []string{fmt.Sprint(v)}
	}
}

func stringList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}

func newSerializationError(format string, args ...any) *Error {
	return &Error{Kind: KindSerialization, Message: fmt.Sprintf(format, args...)}
}

// AttributeError reports an unknown attribute passed to a schema's Create.
type AttributeError struct {
	Type string
	Name string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s has no attribute '%s'", e.Type, e.Name)
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsConnectionError(err error) bool { return KindOf(err) == KindConnection }
func IsBadRequest(err error) bool { return KindOf(err) == KindBadRequest }
func IsTokenError(err error) bool { return KindOf(err) == KindToken }
func IsNoSuchObject(err error) bool { return KindOf(err) == KindNoSuchObject }
func IsMultipleResults(err error) bool { return KindOf(err) == KindMultipleResults }
func IsRateExceeded(err error) bool { return KindOf(err) == KindRateExceeded }
func IsHTTPError(err error) bool { return KindOf(err) == KindHTTP }
func IsSerializationError(err error) bool { return KindOf(err) == KindSerialization }

// IsAttributeError checks if the error is an unknown attribute error.
func IsAttributeError(err error) bool {
	var e *AttributeError
	return errors.As(err, &e)
}
