package client

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse marks a response body that could not be decoded or
	// lacked a required field.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnexpectedStatus marks a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// NetworkError is returned by every failed sensor API call: transport
// failures, timeouts, non-2xx statuses and malformed bodies alike.
type NetworkError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s: status %d: %v", e.Op, e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
