package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

const (
	// maxHintDelay is the hard ceiling on a provider-supplied wait hint.
	// A reset timestamp far in the future usually means a clock problem,
	// not a real instruction to sleep for an hour.
	maxHintDelay = 5 * time.Minute

	// hintPadding is added on top of a provider hint so the retry lands
	// just after the window reopens rather than just before.
	hintPadding = time.Second

	// jitterSpread randomizes a computed delay within ±30%.
	jitterSpread = 0.3
)

// BackoffConfig configures the retry envelope.
type BackoffConfig struct {
	// InitialDelay is the delay before the first retry.
	// Default: 1s
	InitialDelay time.Duration

	// MaxDelay caps the computed delay between retries.
	// Default: 60s
	MaxDelay time.Duration

	// MaxRetries is the number of retries after the initial attempt, so an
	// operation executes at most MaxRetries+1 times. Zero means unset and
	// takes the default; a negative value disables retries, so the operation
	// executes exactly once.
	// Default: 3
	MaxRetries int

	// Multiplier is the exponential growth factor.
	// Default: 2.0
	Multiplier float64

	// Jitter randomizes each computed delay within ±30%. Provider hints are
	// never jittered.
	Jitter bool

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultBackoffConfig returns the envelope used when the caller supplies
// nothing: jittered exponential growth, four executions total.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Second,
		MaxDelay:     60 * time.Second,
		MaxRetries:   3,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Backoff retries transient upstream failures with growing delay. It holds
// no per-call state and is safe for concurrent use.
type Backoff struct {
	config BackoffConfig
}

// NewBackoff creates a backoff engine, applying defaults for zero fields.
func NewBackoff(config BackoffConfig) *Backoff {
	if config.InitialDelay <= 0 {
		config.InitialDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 60 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	} else if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.Multiplier <= 1 {
		config.Multiplier = 2.0
	}
	return &Backoff{config: config}
}

// Config returns the backoff configuration.
func (b *Backoff) Config() BackoffConfig {
	return b.config
}

// Execute runs op, retrying failures classified as retryable. Fatal and
// permission-denied failures surface immediately. Exhausting every attempt
// returns a *RetryExhaustedError wrapping the last cause.
func (b *Backoff) Execute(ctx context.Context, op func(context.Context) error) error {
	attempts := b.config.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if Classify(err) != ClassRetryable {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := b.delay(attempt, err)
		if b.config.OnRetry != nil {
			b.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &RetryExhaustedError{Attempts: attempts, Err: lastErr}
}

// delay computes the sleep before the retry that follows failed attempt n.
// A provider hint wins over the exponential schedule.
func (b *Backoff) delay(attempt int, err error) time.Duration {
	if hint, ok := RetryAfter(err); ok {
		if hint > maxHintDelay {
			hint = maxHintDelay
		}
		return hint + hintPadding
	}

	d := time.Duration(float64(b.config.InitialDelay) * math.Pow(b.config.Multiplier, float64(attempt-1)))
	if d > b.config.MaxDelay || d <= 0 {
		d = b.config.MaxDelay
	}

	if b.config.Jitter && d > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		factor := 1 - jitterSpread + 2*jitterSpread*rand.Float64()
		d = time.Duration(float64(d) * factor)
	}

	return d
}
