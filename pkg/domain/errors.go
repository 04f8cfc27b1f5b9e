package domain

import (
	"errors"
	"fmt"
)

// ErrNoUserMessage is returned when a completion is requested for a
// conversation that contains no user turn.
var ErrNoUserMessage = errors.New("conversation has no user message")

// ConfigError reports missing or invalid endpoint configuration. The call
// fails before any network I/O; re-configuring recovers.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// NetworkError wraps connection-level failures: refused, DNS, reset.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network failure: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError reports that no response arrived within the request deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return "request timed out: " + e.Err.Error()
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPStatusError carries a non-2xx status and the raw body for diagnostics.
type HTTPStatusError struct {
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, response: %s", e.Code, e.Body)
}

// ParseError reports a 2xx response whose body does not match the expected
// completion shape.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "malformed response: " + e.Reason + ": " + e.Err.Error()
	}
	return "malformed response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }
