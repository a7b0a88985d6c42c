package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantNil bool
		wantErr bool
	}{
		{name: "stdout"},
		{name: "none", wantNil: true},
		{name: "", wantNil: true},
		{name: "otlp", env: map[string]string{"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317"}},
		{
			name: "otlp",
			env: map[string]string{
				"OTEL_EXPORTER_OTLP_ENDPOINT":        "",
				"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "",
			},
			wantErr: true,
		},
		{name: "jaeger", env: map[string]string{"OTEL_EXPORTER_JAEGER_ENDPOINT": ""}, wantErr: true},
		{name: "zipkin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			exp, err := NewTracingExporter(context.Background(), tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewTracingExporter(%q) succeeded, want error", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTracingExporter(%q) error = %v", tt.name, err)
			}
			if (exp == nil) != tt.wantNil {
				t.Errorf("NewTracingExporter(%q) nil = %v, want %v", tt.name, exp == nil, tt.wantNil)
			}
		})
	}
}

func TestNewMetricsReader(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantNil bool
		wantErr bool
	}{
		{name: "stdout"},
		{name: "prometheus"},
		{name: "none", wantNil: true},
		{name: "", wantNil: true},
		{
			name: "otlp",
			env: map[string]string{
				"OTEL_EXPORTER_OTLP_ENDPOINT":         "",
				"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT": "",
			},
			wantErr: true,
		},
		{name: "statsd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			reader, err := NewMetricsReader(context.Background(), tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewMetricsReader(%q) succeeded, want error", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMetricsReader(%q) error = %v", tt.name, err)
			}
			if (reader == nil) != tt.wantNil {
				t.Errorf("NewMetricsReader(%q) nil = %v, want %v", tt.name, reader == nil, tt.wantNil)
			}
		})
	}
}
