package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	zl := zerolog.New(buf)
	return &Logger{logger: zl, service: "test"}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("got level %q, want info", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("got format %q, want console", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "verbose", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
	cfg = Config{Level: "debug", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
	cfg = Config{Level: "debug", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogger_FieldsInOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("window diarized", Fields("window", 3, "speakers", 2))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["message"] != "window diarized" {
		t.Errorf("got message %v", entry["message"])
	}
	if entry["window"] != float64(3) {
		t.Errorf("got window %v, want 3", entry["window"])
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf).WithComponent("captioner")

	l.Info("started")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry[FieldComponent] != "captioner" {
		t.Errorf("got component %v", entry[FieldComponent])
	}
}

func TestFields_OddPairs(t *testing.T) {
	m := Fields("a", 1, "dangling")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("got %v, want only a=1", m)
	}
}

func TestGetGlobalLogger_LazyInit(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected lazily-created global logger")
	}
}
