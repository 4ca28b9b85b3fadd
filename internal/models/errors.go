package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures returned by adapters and the resolver.
type ErrorKind string

const (
	ErrorKindFetch              ErrorKind = "fetch"
	ErrorKindParse              ErrorKind = "parse"
	ErrorKindNotFound           ErrorKind = "not-found"
	ErrorKindVerificationFailed ErrorKind = "verification-failed"
	ErrorKindUnknown            ErrorKind = "unknown"
)

// Error is the typed error every provider-facing operation returns.
type Error struct {
	Kind    ErrorKind
	Message string
	// StatusCode is the upstream HTTP status for fetch errors, 0 otherwise.
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether repeating the same call may succeed.
func (e *Error) Retryable() bool {
	if e.Kind != ErrorKindFetch {
		return false
	}
	if errors.Is(e.Cause, context.Canceled) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	}
	return false
}

func NewFetchError(message string, cause error) *Error {
	return &Error{Kind: ErrorKindFetch, Message: message, Cause: cause}
}

// NewHTTPStatusError builds a fetch error for a non-2xx upstream response.
func NewHTTPStatusError(url string, status int) *Error {
	return &Error{
		Kind:       ErrorKindFetch,
		Message:    fmt.Sprintf("GET %s returned %d", url, status),
		StatusCode: status,
	}
}

func NewParseError(message string, cause error) *Error {
	return &Error{Kind: ErrorKindParse, Message: message, Cause: cause}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: message}
}

func NewVerificationError(message string, cause error) *Error {
	return &Error{Kind: ErrorKindVerificationFailed, Message: message, Cause: cause}
}

func NewUnknownError(message string, cause error) *Error {
	return &Error{Kind: ErrorKindUnknown, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or ErrorKindUnknown for untyped errors.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ErrorKindUnknown
}

// IsKind reports whether err is a typed error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.Kind == kind
}

// AsError converts any error into a typed *Error, wrapping untyped ones as Unknown.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return NewUnknownError("unexpected error", err)
}
