package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithField("skill", "contact").Info("query routed")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if record["message"] != "query routed" {
		t.Errorf("message = %v, want %q", record["message"], "query routed")
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want info", record["level"])
	}
	if record["skill"] != "contact" {
		t.Errorf("skill = %v, want contact", record["skill"])
	}
	if _, ok := record["timestamp"]; !ok {
		t.Error("timestamp field missing")
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Debug("debug message")
	log.Info("info message")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}

	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("warn level should be renamed to warning, got %q", buf.String())
	}
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.WithRequestID("req-123").Debug("handling")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("request_id not propagated: %q", buf.String())
	}
}

func TestMultiHandler_FanOut(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
		nil, // skipped
	)
	log := slog.New(h)

	log.Info("hello")

	if !strings.Contains(a.String(), "hello") || !strings.Contains(b.String(), "hello") {
		t.Errorf("record not fanned out to both handlers: a=%q b=%q", a.String(), b.String())
	}
}
