package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"relief/internal/config"
	"relief/internal/logging"
)

func newBufferLogger(t *testing.T, format, level string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: format, Level: level, Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, &buf
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("staging updated", "files", 2)

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if !strings.Contains(content, "staging updated files=2") {
		t.Fatalf("unexpected log content: %q", content)
	}
}

func TestNewWritesToWriterAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "nested", "both.log")
	logger, err := logging.New(logging.Options{Writer: &buf, File: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("downloaded", "job_id", "4")

	if !strings.Contains(buf.String(), "downloaded job_id=4") {
		t.Fatalf("writer missed record: %q", buf.String())
	}
	if !strings.Contains(readLog(t, path), "downloaded job_id=4") {
		t.Fatal("file missed record")
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "console", "info")

	componentLogger := logging.NewComponentLogger(logger, "poll")
	componentLogger.Warn("refresh failed", "resource", "workers", logging.Error(errors.New("status 500")))

	content := buf.String()
	if !strings.Contains(content, "WARN poll: refresh failed") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, `error="status 500"`) {
		t.Fatalf("expected quoted error, got %q", content)
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("component should be rendered as prefix only, got %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logger, buf := newBufferLogger(t, "console", "debug")
	logger.Debug("message with caller")

	if content := buf.String(); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logger, buf := newBufferLogger(t, "json", "info")

	ctx := logging.WithRequestID(context.Background(), "req-1")
	logging.WithContext(ctx, logger).Info("submitted")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry[logging.FieldCorrelationID] != "req-1" {
		t.Fatalf("expected correlation id, got %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, buf := newBufferLogger(t, "console", "")
	logging.WarnWithContext(logger, "fetch failed", "fetch_failed")

	content := buf.String()
	if !strings.Contains(content, "event_type=fetch_failed") || !strings.Contains(content, "error_hint=") {
		t.Fatalf("expected injected context fields, got %q", content)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 0) {
		t.Fatal("expected nop logger to be disabled")
	}
	logger.Error("ignored")
}
