package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/openlocalize/docbridge/observe"
)

// Dispatcher is the composition root collaborators call. One dispatcher per
// target API, built once at process start and passed by reference.
//
// A dispatch is one scheduler admission hosting the full backoff loop:
//
//	dispatch(op) = scheduler.Schedule(backoff.Execute(op))
//
// The gateway sits inside op, so a fallback attempt also benefits from
// delay and jitter if it is itself throttled; fallback changes only the
// credential, never the timing.
type Dispatcher struct {
	target      string
	scheduler   *Scheduler
	backoff     BackoffConfig
	instruments observe.Instruments
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithInstruments wires the dispatcher's logger, metrics, and tracer.
func WithInstruments(in observe.Instruments) DispatcherOption {
	return func(d *Dispatcher) {
		d.instruments = in
	}
}

// NewDispatcher creates a dispatcher for one target API. target names the
// upstream in logs and metrics ("github", "openai").
func NewDispatcher(target string, scheduler *Scheduler, backoff BackoffConfig, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		target:      target,
		scheduler:   scheduler,
		backoff:     NewBackoff(backoff).Config(), // normalize defaults once
		instruments: observe.NopInstruments(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Scheduler returns the dispatcher's admission queue, for shutdown wiring.
func (d *Dispatcher) Scheduler() *Scheduler {
	return d.scheduler
}

// Dispatch submits op under the given operation name and blocks until it
// settles: one resolved value or one error. Retry and fallback choreography
// is observable only through logs and metrics.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, op func(context.Context) error) error {
	meta := observe.CallMeta{Operation: operation, Target: d.target}
	logger := d.instruments.Logger.WithCall(meta)

	ctx, span := d.instruments.Tracer.StartSpan(ctx, meta)
	start := time.Now()

	logger.Debug(ctx, "operation submitted")

	// Per-call engine so the retry hook can carry the operation name; the
	// engine itself holds no state across calls.
	cfg := d.backoff
	maxRetries := cfg.MaxRetries
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		code, _ := StatusCode(err)
		logger.Warn(ctx, "retrying after transient failure",
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "retries_left", Value: maxRetries - attempt + 1},
			observe.Field{Key: "status_code", Value: code},
			observe.Field{Key: "delay_ms", Value: delay.Milliseconds()},
			observe.Field{Key: "error", Value: err.Error()},
		)
		d.instruments.Metrics.RecordRetry(ctx, meta)
	}
	engine := NewBackoff(cfg)

	err := d.scheduler.Schedule(ctx, func(ctx context.Context) error {
		logger.Debug(ctx, "operation admitted")
		return engine.Execute(ctx, op)
	})

	duration := time.Since(start)
	d.instruments.Tracer.EndSpan(span, err)
	d.instruments.Metrics.RecordDispatch(ctx, meta, duration, err)

	switch {
	case err == nil:
		logger.Debug(ctx, "operation completed",
			observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
		)
	case isExhausted(err):
		code, _ := StatusCode(err)
		logger.Error(ctx, "retries exhausted",
			observe.Field{Key: "attempt", Value: maxRetries + 1},
			observe.Field{Key: "retries_left", Value: 0},
			observe.Field{Key: "status_code", Value: code},
			observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
			observe.Field{Key: "error", Value: err.Error()},
		)
	default:
		logger.Debug(ctx, "operation failed",
			observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}

	return err
}

// DispatchValue submits a value-returning operation through d.
func DispatchValue[T any](ctx context.Context, d *Dispatcher, operation string, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := d.Dispatch(ctx, operation, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func isExhausted(err error) bool {
	var exhausted *RetryExhaustedError
	return errors.As(err, &exhausted)
}
