package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error for status mapping and logging.
type Kind string

const (
	KindInvalidRequest        Kind = "invalid_request"
	KindPaymentInitialization Kind = "payment_initialization_failed"
	KindVerificationMismatch  Kind = "verification_mismatch"
	KindUpstreamUnavailable   Kind = "upstream_unavailable"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindUnauthorized          Kind = "unauthorized"
	KindInternal              Kind = "internal"
)

// Error represents an application error. Message is safe to show to clients;
// Err carries the underlying cause and is never serialized.
type Error struct {
	Code        int      `json:"-"`
	Kind        Kind     `json:"-"`
	Message     string   `json:"error"`
	Details     string   `json:"details,omitempty"`
	ErrCode     string   `json:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Err         error    `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with an explicit status and kind.
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{Code: code, Kind: kind, Message: message, Err: err}
}

// InvalidRequest is a client fault; never retried.
func InvalidRequest(message string) *Error {
	return New(http.StatusBadRequest, KindInvalidRequest, message, nil)
}

// PaymentInitializationFailed is raised once order creation has exhausted its retries.
func PaymentInitializationFailed(cause error, suggestions []string) *Error {
	e := New(http.StatusInternalServerError, KindPaymentInitialization, "Failed to create payment order", cause)
	e.ErrCode = "PAYMENT_INITIALIZATION_FAILED"
	e.Suggestions = suggestions
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// VerificationMismatch means the claimed signature did not match. It is an expected
// outcome, not a fault.
func VerificationMismatch() *Error {
	return New(http.StatusBadRequest, KindVerificationMismatch, "Payment verification failed. Invalid signature.", nil)
}

// UpstreamUnavailable wraps a failed gateway call; the raw upstream message goes to Details.
func UpstreamUnavailable(message string, cause error) *Error {
	e := New(http.StatusInternalServerError, KindUpstreamUnavailable, message, cause)
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

// Conflict means the request collides with state already recorded, such as a
// payment that is attached to another application.
func Conflict(message string) *Error {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

// Internal wraps an unexpected failure. Details carries the cause message, never a stack.
func Internal(message string, cause error) *Error {
	e := New(http.StatusInternalServerError, KindInternal, message, cause)
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// StatusCode returns the HTTP status for err, defaulting to 500.
func StatusCode(err error) int {
	if appErr, ok := As(err); ok && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
