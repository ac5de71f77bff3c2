package search

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError via errors.Is
	ErrConfiguration = errors.New("search: configuration error")

	// ErrUnrecognizedRecord reports a raw record whose shape does not match its search type
	ErrUnrecognizedRecord = errors.New("search: unrecognized record shape")

	// ErrFetchTimeout reports a fetch that did not resolve within the fetch timeout
	ErrFetchTimeout = errors.New("search: fetch timed out")
)

// ConfigurationError is a programmer or input error detected while composing
// a request. It is never retryable.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "search: " + e.Reason
	}
	return fmt.Sprintf("search: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failed fetch
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "search: transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies the error held by a session
type ErrorKind string

const (
	ErrorNone          ErrorKind = ""
	ErrorTransport     ErrorKind = "transport"
	ErrorTimeout       ErrorKind = "timeout"
	ErrorNormalization ErrorKind = "normalization"
)

func classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorNone
	case errors.Is(err, ErrFetchTimeout):
		return ErrorTimeout
	case errors.Is(err, ErrUnrecognizedRecord):
		return ErrorNormalization
	default:
		return ErrorTransport
	}
}
