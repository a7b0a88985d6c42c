package resilience

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRetryExhaustedError(t *testing.T) {
	cause := &StatusError{Code: 502, Message: "bad gateway"}
	err := &RetryExhaustedError{Attempts: 4, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("RetryExhaustedError does not unwrap to its cause")
	}

	msg := err.Error()
	if want := "retries exhausted after 4 attempts"; !strings.Contains(msg, want) {
		t.Errorf("Error() = %q, want it to mention %q", msg, want)
	}
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Code: 429, Message: "slow down", RetryAfter: time.Minute}
	if got, want := err.Error(), "upstream status 429: slow down"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &StatusError{Code: 500}
	if got, want := bare.Error(), "upstream status 500"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("draining: %w", ErrQueueCancelled)
	if !errors.Is(err, ErrQueueCancelled) {
		t.Error("wrapped sentinel lost identity")
	}
}
