// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrMalformedCallback indicates a callback payload could not be decoded.
	ErrMalformedCallback = errors.New("malformed callback payload")

	// ErrUnknownAction indicates a decoded action tag has no registered handler.
	ErrUnknownAction = errors.New("unknown action")

	// ErrPayloadTooLarge indicates an encoded callback payload exceeds the transport limit.
	ErrPayloadTooLarge = errors.New("callback payload too large")

	// ErrUpstream indicates a booker or gateway call failed.
	ErrUpstream = errors.New("upstream call failed")
)

// UpstreamError represents a failed call to the booker API or the chat
// transport, with enough context to log and render a short user message.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream error (%s %s, status=%d)", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("upstream error (%s %s): %v", e.Method, e.Path, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUpstream
}

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// NewUpstreamError creates a new upstream error for a non-2xx status.
func NewUpstreamError(method, path string, statusCode int) *UpstreamError {
	return &UpstreamError{Method: method, Path: path, StatusCode: statusCode}
}

// WrapUpstreamError creates a new upstream error for a transport failure.
func WrapUpstreamError(method, path string, err error) *UpstreamError {
	return &UpstreamError{Method: method, Path: path, Err: err}
}
