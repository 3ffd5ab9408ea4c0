package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)

	logger := slog.New(newConsoleHandler(&buf, lvl))
	logger = NewComponentLogger(logger, "pipeline")
	logger.Info("deleted", Uint64(FieldPostID, 42), Int(FieldAttempt, 1))

	line := buf.String()
	if !strings.Contains(line, "INFO pipeline: deleted") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "post_id=42") || !strings.Contains(line, "attempt=1") {
		t.Fatalf("expected attrs in console line: %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)

	logger := slog.New(newConsoleHandler(&buf, lvl))
	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be suppressed: %q", out)
	}
	if !strings.Contains(out, "WARN visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithPostID(ctx, 7)
	WithContext(ctx, logger).Info("progress")

	line := buf.String()
	if !strings.Contains(line, "run_id=run-1") || !strings.Contains(line, "post_id=7") {
		t.Fatalf("expected context fields in line: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got != slog.LevelInfo {
		t.Fatalf("expected info fallback, got %v", got)
	}
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", got)
	}
}
