package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-github/v68/github"
	openai "github.com/sashabaranov/go-openai"
)

func TestClassifyKind_StatusCodes(t *testing.T) {
	tests := []struct {
		code int
		want Kind
	}{
		{429, KindRateLimited},
		{500, KindServerError},
		{502, KindServerError},
		{503, KindServerError},
		{401, KindPermissionDenied},
		{403, KindPermissionDenied},
		{400, KindClientError},
		{404, KindClientError},
		{422, KindClientError},
	}
	for _, tt := range tests {
		err := &StatusError{Code: tt.code}
		if got := ClassifyKind(err); got != tt.want {
			t.Errorf("ClassifyKind(status %d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestClassifyKind_WrappedStatus(t *testing.T) {
	err := fmt.Errorf("creating pull request: %w", &StatusError{Code: 502})
	if got := ClassifyKind(err); got != KindServerError {
		t.Errorf("ClassifyKind(wrapped 502) = %v, want server error", got)
	}
}

func TestClassifyKind_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "openai api 429",
			err:  &openai.APIError{HTTPStatusCode: 429, Message: "rate limit"},
			want: KindRateLimited,
		},
		{
			name: "openai request 502",
			err:  &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")},
			want: KindServerError,
		},
		{
			name: "openai api 401",
			err:  &openai.APIError{HTTPStatusCode: 401, Message: "invalid key"},
			want: KindPermissionDenied,
		},
		{
			name: "github 404",
			err: &github.ErrorResponse{
				Response: &http.Response{StatusCode: 404, Request: &http.Request{}},
			},
			want: KindClientError,
		},
		{
			name: "github primary rate limit on 403",
			err: &github.RateLimitError{
				Response: &http.Response{StatusCode: 403, Request: &http.Request{}},
			},
			want: KindRateLimited,
		},
		{
			name: "github secondary rate limit on 403",
			err: &github.AbuseRateLimitError{
				Response: &http.Response{StatusCode: 403, Request: &http.Request{}},
			},
			want: KindRateLimited,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyKind(tt.err); got != tt.want {
				t.Errorf("ClassifyKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyKind_NetworkErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connection reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}},
		{"connection refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "api.github.com"}},
		{"deadline exceeded", context.DeadlineExceeded},
		{"wrapped reset", fmt.Errorf("fetching contents: %w", syscall.ECONNRESET)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyKind(tt.err); got != KindNetworkError {
				t.Errorf("ClassifyKind() = %v, want network error", got)
			}
		})
	}
}

func TestClassifyKind_Fatal(t *testing.T) {
	for _, err := range []error{
		errors.New("template rendered empty body"),
		context.Canceled,
	} {
		if got := Classify(err); got != ClassFatal {
			t.Errorf("Classify(%v) = %v, want fatal", err, got)
		}
	}
}

func TestKind_Class(t *testing.T) {
	tests := []struct {
		kind Kind
		want Class
	}{
		{KindRateLimited, ClassRetryable},
		{KindServerError, ClassRetryable},
		{KindNetworkError, ClassRetryable},
		{KindPermissionDenied, ClassPermissionDenied},
		{KindClientError, ClassFatal},
		{KindUnknown, ClassFatal},
	}
	for _, tt := range tests {
		if got := tt.kind.Class(); got != tt.want {
			t.Errorf("%v.Class() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestStatusCode(t *testing.T) {
	if code, ok := StatusCode(&StatusError{Code: 418}); !ok || code != 418 {
		t.Errorf("StatusCode() = %d, %v; want 418, true", code, ok)
	}
	if code, ok := StatusCode(&openai.APIError{HTTPStatusCode: 500}); !ok || code != 500 {
		t.Errorf("StatusCode() = %d, %v; want 500, true", code, ok)
	}
	if _, ok := StatusCode(errors.New("no status here")); ok {
		t.Error("StatusCode() reported a code for a plain error")
	}
}

func TestRetryAfter(t *testing.T) {
	wait := 30 * time.Second
	abuse := &github.AbuseRateLimitError{RetryAfter: &wait}
	if d, ok := RetryAfter(abuse); !ok || d != wait {
		t.Errorf("RetryAfter(abuse) = %v, %v; want %v, true", d, ok, wait)
	}

	limit := &github.RateLimitError{
		Rate: github.Rate{Reset: github.Timestamp{Time: time.Now().Add(time.Minute)}},
	}
	if d, ok := RetryAfter(limit); !ok || d <= 0 || d > time.Minute {
		t.Errorf("RetryAfter(rate limit) = %v, %v; want remaining window", d, ok)
	}

	hinted := &StatusError{Code: 429, RetryAfter: 5 * time.Second}
	if d, ok := RetryAfter(hinted); !ok || d != 5*time.Second {
		t.Errorf("RetryAfter(status) = %v, %v; want 5s, true", d, ok)
	}

	if _, ok := RetryAfter(&StatusError{Code: 429}); ok {
		t.Error("RetryAfter() invented a hint")
	}
}
