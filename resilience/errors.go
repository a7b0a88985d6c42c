package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the call layer.
var (
	// ErrQueueCancelled is returned to callers whose queued entry was
	// discarded by ClearQueue or Shutdown before admission.
	ErrQueueCancelled = errors.New("resilience: queued entry cancelled")

	// ErrSchedulerClosed is returned when scheduling after Shutdown.
	ErrSchedulerClosed = errors.New("resilience: scheduler is shut down")

	// ErrUnknownNamespace is returned for operations outside the gateway
	// allow-list.
	ErrUnknownNamespace = errors.New("resilience: namespace not in allow-list")
)

// RetryExhaustedError wraps the last failure after all attempts were used.
type RetryExhaustedError struct {
	// Attempts is the total number of executions, including the first.
	Attempts int

	// Err is the error returned by the final attempt.
	Err error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("resilience: retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// StatusError is an upstream failure carrying an HTTP status code. Provider
// SDK errors are classified directly; StatusError covers the raw-request
// path and anything that already stripped the provider type.
type StatusError struct {
	Code    int
	Message string

	// RetryAfter, when positive, is the provider-supplied wait hint.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.Code)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Message)
}
