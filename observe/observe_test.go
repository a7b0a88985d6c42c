package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		ServiceName: "docbridge",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"bad tracing exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, ErrInvalidTracingExporter},
		{"sample pct out of range", func(c *Config) { c.Tracing.SamplePct = 1.5 }, ErrInvalidSamplePct},
		{"bad metrics exporter", func(c *Config) { c.Metrics.Exporter = "statsd" }, ErrInvalidMetricsExporter},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"disabled subsystems skip validation", func(c *Config) {
			c.Tracing = TracingConfig{Exporter: "zipkin"}
			c.Metrics = MetricsConfig{Exporter: "statsd"}
			c.Logging = LoggingConfig{Level: "trace"}
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "docbridge"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Error("disabled observer returned nil primitives")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestInstrumentsFromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "docbridge",
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	in, err := InstrumentsFromObserver(obs)
	if err != nil {
		t.Fatalf("InstrumentsFromObserver() error = %v", err)
	}
	if in.Tracer == nil || in.Metrics == nil || in.Logger == nil {
		t.Error("instruments incomplete")
	}

	if _, err := InstrumentsFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("nil observer error = %v, want ErrNilObserver", err)
	}
}

func TestNopInstruments(t *testing.T) {
	in := NopInstruments()

	// Everything must be callable without setup or panic.
	ctx, span := in.Tracer.StartSpan(context.Background(), CallMeta{Operation: "get"})
	in.Tracer.EndSpan(span, errors.New("boom"))
	in.Metrics.RecordDispatch(ctx, CallMeta{Operation: "get"}, 0, nil)
	in.Metrics.RecordRetry(ctx, CallMeta{Operation: "get"})
	in.Metrics.RecordFallback(ctx, CallMeta{Operation: "get"})
	in.Logger.Info(ctx, "nop")
	in.Logger.WithCall(CallMeta{Operation: "get"}).Error(ctx, "nop")
}
