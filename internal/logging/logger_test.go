package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"plexrr/internal/services"
)

func TestNewConsoleWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.With(FieldComponent, "sync").Info("planned actions", "count", 3)

	line := buf.String()
	if !strings.Contains(line, "INFO sync: planned actions") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "count=3") {
		t.Fatalf("missing field in line: %q", line)
	}
}

func TestNewConsoleQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("fetched", "title", "The Matrix")

	if !strings.Contains(buf.String(), `title="The Matrix"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info line should be suppressed: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNewJSONEmitsLowercaseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hello")

	if !strings.Contains(buf.String(), `"level":"info"`) {
		t.Fatalf("unexpected json line: %q", buf.String())
	}
}

func TestWithContextAddsSourceAndCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	ctx := services.WithSource(context.Background(), "radarr")
	ctx = services.WithRequestID(ctx, "abc-123")
	WithContext(ctx, logger).Info("request complete")

	out := buf.String()
	if !strings.Contains(out, "source=radarr") {
		t.Fatalf("missing source field: %q", out)
	}
	if !strings.Contains(out, "correlation_id=abc-123") {
		t.Fatalf("missing correlation field: %q", out)
	}
}
