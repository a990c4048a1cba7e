// Package domain defines the core domain models for the CMS admin client.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a Failure.
type Kind string

const (
	// KindUnauthenticated means a session was required but none exists.
	// Always raised before any network call.
	KindUnauthenticated Kind = "unauthenticated"

	// KindTransport means no HTTP response was obtained (network error,
	// abort, timeout).
	KindTransport Kind = "transport"

	// KindApplication means a response was obtained but its status or body
	// indicates failure.
	KindApplication Kind = "application"

	// KindClient covers local failures that never reach the transport
	// (bad input, storage errors).
	KindClient Kind = "client"
)

// Failure is the error value every API operation resolves to when it does
// not succeed. Codes follow the CMS-<AREA>-<NNNN> format.
type Failure struct {
	Code       string // Error code (e.g., "CMS-NET-5040")
	Kind       Kind
	HTTPStatus int    // Set for KindApplication only
	Message    string // Human-readable message
	Cause      error  // Underlying error (if any)

	// generic sentinels match every failure of the same kind
	generic bool
}

// Error implements the error interface.
func (e *Failure) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("[%s] %s (status %d)", e.Code, e.Message, e.HTTPStatus)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Failure) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support.
//
// Failures compare equal by code. A kind-level sentinel (ErrTransport,
// ErrApplication) matches any failure of its kind.
func (e *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	if t.generic {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code
}

// NewFailure creates a new Failure with the given code, kind and message.
func NewFailure(code string, kind Kind, message string) *Failure {
	return &Failure{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

func newGeneric(code string, kind Kind, message string) *Failure {
	f := NewFailure(code, kind, message)
	f.generic = true
	return f
}

// WithCause returns a copy of the failure wrapping the given cause.
func (e *Failure) WithCause(cause error) *Failure {
	c := *e
	c.generic = false
	c.Cause = cause
	return &c
}

// WithMessage returns a copy of the failure with a different message.
func (e *Failure) WithMessage(message string) *Failure {
	c := *e
	c.generic = false
	c.Message = message
	return &c
}

// ApplicationFailure builds a KindApplication failure for an HTTP status.
func ApplicationFailure(status int, message string) *Failure {
	return &Failure{
		Code:       fmt.Sprintf("CMS-APP-%03d0", status),
		Kind:       KindApplication,
		HTTPStatus: status,
		Message:    message,
	}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}

// GetErrorCode extracts the error code from an error if it's a Failure.
func GetErrorCode(err error) string {
	if f, ok := AsFailure(err); ok {
		return f.Code
	}
	return ""
}

// ============================================================================
// Authentication (AUTH)
// ============================================================================

var (
	// ErrUnauthenticated indicates the operation requires a session and none exists.
	ErrUnauthenticated = NewFailure("CMS-AUTH-4010", KindUnauthenticated, "not logged in")
)

// ============================================================================
// Transport (NET)
// ============================================================================

var (
	// ErrTransport matches every transport failure.
	ErrTransport = newGeneric("CMS-NET-0000", KindTransport, "transport failure")

	// ErrUnreachable indicates the request could not be delivered.
	ErrUnreachable = NewFailure("CMS-NET-5030", KindTransport, "server unreachable")

	// ErrTimeout indicates the request deadline elapsed before a response.
	ErrTimeout = NewFailure("CMS-NET-5040", KindTransport, "request timed out")

	// ErrCanceled indicates the caller aborted the request.
	ErrCanceled = NewFailure("CMS-NET-4990", KindTransport, "request canceled")
)

// ============================================================================
// Application (APP)
// ============================================================================

var (
	// ErrApplication matches every application failure.
	ErrApplication = newGeneric("CMS-APP-0000", KindApplication, "request failed")

	// ErrMalformedResponse indicates a success status with an unusable body.
	ErrMalformedResponse = NewFailure("CMS-APP-2000", KindApplication, "malformed response")
)

// ============================================================================
// Client (ARG, SESS)
// ============================================================================

var (
	// ErrInvalidInput indicates an argument failed local validation.
	ErrInvalidInput = NewFailure("CMS-ARG-4000", KindClient, "invalid input")

	// ErrInvalidSession indicates a session missing user id, username or token.
	ErrInvalidSession = NewFailure("CMS-SESS-4000", KindClient, "invalid session")
)
