package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line, err := buf.ReadString('\n')
	if err != nil {
		t.Fatalf("reading log line: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("unmarshaling log line %q: %v", line, err)
	}
	return entry
}

func TestStructuredLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "cache built",
		Field{Key: "cache.id", Value: "orders"},
		Field{Key: "decorators", Value: 3},
	)

	entry := decodeLogLine(t, &buf)
	if entry["msg"] != "cache built" {
		t.Errorf("msg = %v, want %q", entry["msg"], "cache built")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["cache.id"] != "orders" {
		t.Errorf("cache.id = %v, want orders", entry["cache.id"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp field missing")
	}
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "dropped")
	logger.Info(ctx, "dropped")
	logger.Warn(ctx, "kept")
	logger.Error(ctx, "kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("output contains filtered entries: %q", out)
	}
	if got := strings.Count(out, "kept"); got != 2 {
		t.Errorf("kept entries = %d, want 2", got)
	}
}

func TestStructuredLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "cache write",
		Field{Key: "key", Value: "user:42"},
		Field{Key: "value", Value: "top-secret-payload"},
		Field{Key: "token", Value: "abc123"},
	)

	entry := decodeLogLine(t, &buf)
	if entry["value"] != "[REDACTED]" {
		t.Errorf("value = %v, want [REDACTED]", entry["value"])
	}
	if entry["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", entry["token"])
	}
	if entry["key"] != "user:42" {
		t.Errorf("key = %v, want passthrough", entry["key"])
	}
	if strings.Contains(buf.String(), "top-secret-payload") {
		t.Error("redacted payload leaked into output")
	}
}

func TestStructuredLogger_WithCache(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	scoped := logger.WithCache(CacheMeta{ID: "orders", Kind: "lru"})
	scoped.Info(context.Background(), "hit")

	entry := decodeLogLine(t, &buf)
	if entry["cache.id"] != "orders" {
		t.Errorf("cache.id = %v, want orders", entry["cache.id"])
	}
	if entry["cache.kind"] != "lru" {
		t.Errorf("cache.kind = %v, want lru", entry["cache.kind"])
	}

	// The parent logger stays unscoped.
	logger.Info(context.Background(), "plain")
	entry = decodeLogLine(t, &buf)
	if _, ok := entry["cache.id"]; ok {
		t.Error("parent logger gained cache.id after WithCache")
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
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	ctx := context.Background()

	// Must be safe and silent on all paths.
	logger.Debug(ctx, "x")
	logger.Info(ctx, "x")
	logger.Warn(ctx, "x")
	logger.Error(ctx, "x")
	if scoped := logger.WithCache(CacheMeta{ID: "a"}); scoped == nil {
		t.Error("WithCache() = nil, want nop logger")
	}
}
