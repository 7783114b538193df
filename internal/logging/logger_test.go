package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerNotNil(t *testing.T) {
	logger := NewLogger(Config{})
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLoggerUsesTextHandlerWithInfoLevel(t *testing.T) {
	logger := NewLogger(Config{Format: "text", Level: "info"})

	if enabled := logger.Enabled(context.Background(), slog.LevelInfo); !enabled {
		t.Fatal("expected info level to be enabled")
	}

	if enabled := logger.Enabled(context.Background(), slog.LevelDebug); enabled {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestNewLoggerJSONIncludesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "json", Level: "debug", Service: "scoreboard", Version: "v1", Output: &buf})

	logger.Debug("hello")

	out := buf.String()
	if !strings.Contains(out, `"service":"scoreboard"`) {
		t.Fatalf("expected service attr in %s", out)
	}
	if !strings.Contains(out, `"version":"v1"`) {
		t.Fatalf("expected version attr in %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := parseLevel(raw); got != want {
			t.Fatalf("expected %v for %q, got %v", want, raw, got)
		}
	}
}

func TestFromContextFallsBack(t *testing.T) {
	fallback := slog.Default()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}

	scoped := NewLogger(Config{})
	ctx := WithLogger(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Fatalf("expected scoped logger from context")
	}
}
