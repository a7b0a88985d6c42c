package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "operation completed",
		Field{Key: "duration_ms", Value: 42},
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry["level"] != "info" || entry["msg"] != "operation completed" {
		t.Errorf("entry = %v", entry)
	}
	if entry["duration_ms"] != float64(42) {
		t.Errorf("duration_ms = %v", entry["duration_ms"])
	}
	if entry["timestamp"] == nil {
		t.Error("missing timestamp")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	ctx := context.Background()
	logger.Debug(ctx, "dropped")
	logger.Info(ctx, "dropped")
	logger.Warn(ctx, "kept")
	logger.Error(ctx, "kept")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("levels = %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_WithCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	callLogger := logger.WithCall(CallMeta{
		Operation: "pulls.create",
		Namespace: "pulls",
		Target:    "github",
	})
	callLogger.Info(context.Background(), "operation submitted")

	// The parent stays uncontaminated.
	logger.Info(context.Background(), "plain")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["call.operation"] != "pulls.create" || entries[0]["call.target"] != "github" {
		t.Errorf("call entry = %v", entries[0])
	}
	if _, ok := entries[1]["call.operation"]; ok {
		t.Errorf("parent logger carries call attrs: %v", entries[1])
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "auth configured",
		Field{Key: "token", Value: "ghp_secret"},
		Field{Key: "authorization", Value: "Bearer sk-123"},
		Field{Key: "owner", Value: "openlocalize"},
	)

	entries := decodeLines(t, &buf)
	entry := entries[0]
	if entry["token"] != "[REDACTED]" || entry["authorization"] != "[REDACTED]" {
		t.Errorf("secrets not redacted: %v", entry)
	}
	if entry["owner"] != "openlocalize" {
		t.Errorf("non-secret field altered: %v", entry["owner"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
