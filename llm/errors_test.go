package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTypePredicates(t *testing.T) {
	if !IsProviderError(NewProviderError("quota exceeded")) {
		t.Error("Expected IsProviderError to return true for provider error")
	}
	if !IsTransportError(NewTransportError("connection reset", nil)) {
		t.Error("Expected IsTransportError to return true for transport error")
	}
	if !IsProtocolError(NewProtocolError("unexpected body", nil)) {
		t.Error("Expected IsProtocolError to return true for protocol error")
	}
	if !IsTimeoutError(NewTimeoutError("lifetime exceeded")) {
		t.Error("Expected IsTimeoutError to return true for timeout error")
	}

	if IsProviderError(NewTransportError("connection reset", nil)) {
		t.Error("Expected IsProviderError to return false for transport error")
	}
	if IsTimeoutError(errors.New("plain error")) {
		t.Error("Expected IsTimeoutError to return false for plain error")
	}
}

func TestIsRetryableError(t *testing.T) {
	if !IsRetryableError(NewTransportError("connection reset", nil)) {
		t.Error("Expected transport errors to be retryable")
	}
	if IsRetryableError(NewProviderError("quota exceeded")) {
		t.Error("Expected provider errors to not be retryable")
	}
	if IsRetryableError(NewProtocolError("unexpected body", nil)) {
		t.Error("Expected protocol errors to not be retryable")
	}
	if IsRetryableError(NewTimeoutError("lifetime exceeded")) {
		t.Error("Expected timeout errors to not be retryable")
	}
	if IsRetryableError(errors.New("plain error")) {
		t.Error("Expected plain errors to not be retryable")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewProviderError("quota exceeded")
	want := "provider: quota exceeded"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	cause := errors.New("connection reset")
	terr := NewTransportError("performing request", cause)
	want = "transport: performing request: connection reset"
	if terr.Error() != want {
		t.Errorf("Expected %q, got %q", want, terr.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransportError("performing request", cause)
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}

	wrapped := fmt.Errorf("submit: %w", err)
	if !IsTransportError(wrapped) {
		t.Error("Expected IsTransportError to see through fmt.Errorf wrapping")
	}
}
