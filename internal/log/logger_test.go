package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelDebug,
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func TestLoggerTagsComponent(t *testing.T) {
	logger, buf := newBufferLogger("worker")

	logger.Info("sweep done", "batch", 3)

	line := buf.String()
	if !strings.Contains(line, "component=worker") {
		t.Errorf("record missing component attribute: %s", line)
	}
	if !strings.Contains(line, "batch=3") {
		t.Errorf("record missing caller attribute: %s", line)
	}
}

func TestLoggerWithKeepsComponent(t *testing.T) {
	logger, buf := newBufferLogger("http")

	logger.With("request_id", "abc").ErrorContext(context.Background(), "boom")

	line := buf.String()
	if !strings.Contains(line, "component=http") {
		t.Errorf("derived logger lost component attribute: %s", line)
	}
	if !strings.Contains(line, "request_id=abc") {
		t.Errorf("derived logger lost bound attribute: %s", line)
	}
}
