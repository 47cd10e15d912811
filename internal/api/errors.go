package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotAuthenticated indicates an operation that requires a bearer token
	// was attempted with no active session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrThrottled indicates the client-side mutation throttle refused the
	// action; no request was sent.
	ErrThrottled = errors.New("too many requests")
)

// RequestError is a transport-level failure: DNS, connection refused,
// timeout. No HTTP response was received.
type RequestError struct {
	Op  string
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError is a completed exchange that came back non-2xx. Message and
// Fields are extracted from the response body when it carries the error
// envelope; either may be empty.
type StatusError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

// Error surfaces the most specific text available: per-field validation
// messages, then the top-level message, then a generic fallback.
func (e *StatusError) Error() string {
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			if msgs := e.Fields[name]; len(msgs) > 0 {
				parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(msgs, ", ")))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("operation failed (HTTP %d)", e.StatusCode)
}

// AppError is a 2xx exchange whose envelope reported success=false.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "operation failed"
}
