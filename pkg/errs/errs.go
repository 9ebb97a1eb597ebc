// Package errs defines the error kinds surfaced by the PitStop client.
// Callers branch on the kind with IsNetwork, IsDecode and IsValidation.
package errs

import (
	"errors"
	"fmt"
)

// NetworkError reports a transport failure or a non-2xx response
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports malformed input: a polyline, a JSON body or a coordinate
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError reports a request that was rejected before being sent
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Network wraps err as a NetworkError
func Network(op, url string, status int, err error) error {
	return &NetworkError{Op: op, URL: url, StatusCode: status, Err: err}
}

// Decode wraps err as a DecodeError
func Decode(what string, err error) error {
	return &DecodeError{What: what, Err: err}
}

// Validation builds a ValidationError
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsNetwork reports whether err is or wraps a NetworkError
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsDecode reports whether err is or wraps a DecodeError
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
