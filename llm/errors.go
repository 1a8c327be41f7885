package llm

import (
	"errors"
)

// Error represents a provider-neutral exchange failure.
type Error struct {
	Type       ErrorType
	Message    string
	Retryable  bool
	StatusCode int
	Cause      error // Original transport or decode error
}

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeProvider is a well-formed error envelope from the service.
	// Surfaced verbatim, never retried.
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeTransport is a connection or IO failure. Retried up to the
	// unit's budget, then surfaced.
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeProtocol means the body was present but did not match the
	// active adapter's expected shape. Retrying would reproduce the same
	// parse, so it is surfaced immediately.
	ErrorTypeProtocol ErrorType = "protocol"
	// ErrorTypeTimeout means the unit's lifetime timer fired.
	ErrorTypeTimeout ErrorType = "timeout"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Type) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Type) + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewProviderError creates an error for a decoded provider error envelope.
func NewProviderError(message string) *Error {
	return &Error{Type: ErrorTypeProvider, Message: message}
}

// NewTransportError creates a retryable error for a network-level failure.
func NewTransportError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeTransport, Message: message, Retryable: true, Cause: cause}
}

// NewProtocolError creates an error for an unexpected or malformed body.
func NewProtocolError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeProtocol, Message: message, Cause: cause}
}

// NewTimeoutError creates an error for a fired lifetime timer.
func NewTimeoutError(message string) *Error {
	return &Error{Type: ErrorTypeTimeout, Message: message}
}

// IsProviderError checks if an error is a decoded provider error envelope.
func IsProviderError(err error) bool { return isType(err, ErrorTypeProvider) }

// IsTransportError checks if an error is a network-level failure.
func IsTransportError(err error) bool { return isType(err, ErrorTypeTransport) }

// IsProtocolError checks if an error is a malformed-body failure.
func IsProtocolError(err error) bool { return isType(err, ErrorTypeProtocol) }

// IsTimeoutError checks if an error came from a fired lifetime timer.
func IsTimeoutError(err error) bool { return isType(err, ErrorTypeTimeout) }

// IsRetryableError checks if an error is retryable.
func IsRetryableError(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

func isType(err error, t ErrorType) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type == t
	}
	return false
}
