package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Error is a failed remote call. StatusCode is 0 when no HTTP response was received.
type Error struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (HTTP %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same call may succeed: rate limits,
// server errors, timeouts and network failures.
func (e *Error) Retryable() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode >= 500:
		return true
	case e.StatusCode != 0:
		return false
	case errors.Is(e.Err, context.Canceled):
		return false
	case errors.Is(e.Err, context.DeadlineExceeded):
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr)
}

// IsRetryable reports whether err is an *Error that is Retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}

// wrapError attaches the provider name and HTTP status from the SDK's error type.
func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: provider, StatusCode: statusCode(err), Err: err}
}

func statusCode(err error) int {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) {
		return gErrPtr.Code
	}
	return 0
}
