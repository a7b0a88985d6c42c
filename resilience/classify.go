package resilience

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/google/go-github/v68/github"
	openai "github.com/sashabaranov/go-openai"
)

// Class is the coarse recovery decision for a failed call.
type Class int

const (
	// ClassFatal: surface immediately, no retry.
	ClassFatal Class = iota
	// ClassRetryable: retry with backoff.
	ClassRetryable
	// ClassPermissionDenied: one secondary-credential attempt, then fatal.
	ClassPermissionDenied
)

func (c Class) String() string {
	switch c {
	case ClassRetryable:
		return "retryable"
	case ClassPermissionDenied:
		return "permission_denied"
	default:
		return "fatal"
	}
}

// Kind is the fine-grained failure category, used for logs and metrics.
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimited
	KindServerError
	KindNetworkError
	KindPermissionDenied
	KindClientError
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindServerError:
		return "server_error"
	case KindNetworkError:
		return "network_error"
	case KindPermissionDenied:
		return "permission_denied"
	case KindClientError:
		return "client_error"
	default:
		return "unknown"
	}
}

// Class maps a Kind onto its recovery decision.
func (k Kind) Class() Class {
	switch k {
	case KindRateLimited, KindServerError, KindNetworkError:
		return ClassRetryable
	case KindPermissionDenied:
		return ClassPermissionDenied
	default:
		return ClassFatal
	}
}

// Classify returns the recovery decision for err.
func Classify(err error) Class {
	return ClassifyKind(err).Class()
}

// ClassifyKind categorizes an upstream call failure.
//
// Provider throttling errors are checked before status codes: GitHub reports
// secondary rate limits as 403, which would otherwise read as a credential
// denial.
func ClassifyKind(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return KindRateLimited
	}
	var limit *github.RateLimitError
	if errors.As(err, &limit) {
		return KindRateLimited
	}

	if code, ok := StatusCode(err); ok {
		switch {
		case code == http.StatusTooManyRequests:
			return KindRateLimited
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return KindPermissionDenied
		case code >= 500:
			return KindServerError
		case code >= 400:
			return KindClientError
		}
	}

	if isTransientNetwork(err) {
		return KindNetworkError
	}

	return KindUnknown
}

// StatusCode extracts the HTTP status code from a provider error, if any.
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, true
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode, true
	}
	var ghLimit *github.RateLimitError
	if errors.As(err, &ghLimit) && ghLimit.Response != nil {
		return ghLimit.Response.StatusCode, true
	}
	var ghAbuse *github.AbuseRateLimitError
	if errors.As(err, &ghAbuse) && ghAbuse.Response != nil {
		return ghAbuse.Response.StatusCode, true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode, true
	}

	return 0, false
}

// RetryAfter extracts a provider-supplied wait hint: an explicit retry-after
// duration, or the time remaining until a rate-limit window resets.
func RetryAfter(err error) (time.Duration, bool) {
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) && abuse.RetryAfter != nil {
		return *abuse.RetryAfter, true
	}

	var limit *github.RateLimitError
	if errors.As(err, &limit) {
		if d := time.Until(limit.Rate.Reset.Time); d > 0 {
			return d, true
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
		return statusErr.RetryAfter, true
	}

	return 0, false
}

// isTransientNetwork reports whether err is a transport failure worth
// retrying: timeout, connection reset/refused, broken pipe, DNS failure,
// or a truncated response.
func isTransientNetwork(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	switch {
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}

	return false
}
