package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Common errors returned by the fetcher.
var (
	// ErrRetryExhausted is returned when all attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrUnexpectedStatus is returned for responses the fetcher gives up on.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// ErrorClass classifies a failed request attempt.
type ErrorClass string

const (
	// ErrorClassTimeout covers attempts that exceeded the per-attempt deadline.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassNetwork covers non-timeout transport failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassServer covers 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassClient covers 4xx responses.
	ErrorClassClient ErrorClass = "client"
)

// FetchError carries the classification and status of a failed attempt.
type FetchError struct {
	StatusCode int
	Class      ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s error (status %d)", e.Class, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s error: %v", e.Class, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to an error class.
// Only called for non-200 responses.
func classifyStatus(statusCode int) ErrorClass {
	if statusCode >= 500 {
		return ErrorClassServer
	}
	return ErrorClassClient
}

// classifyErr maps a transport error to an error class.
func classifyErr(err error) ErrorClass {
	if isTimeout(err) {
		return ErrorClassTimeout
	}
	return ErrorClassNetwork
}

// isTimeout reports whether err represents a timed-out attempt, either a
// transport-level timeout or the per-attempt deadline expiring.
func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// shouldRetry determines whether a failed attempt is worth repeating.
// Client errors are final: the endpoint has answered and will keep
// answering the same way, so retrying only burns the attempt budget.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassTimeout, ErrorClassNetwork, ErrorClassServer:
		return true
	default:
		return false
	}
}
