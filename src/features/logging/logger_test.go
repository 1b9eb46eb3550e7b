package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/contre95/beetwatch/src/features/config"
)

func TestNewLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.Logger{Enabled: false, Level: "debug"}, &buf)
	logger.Error("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.Logger{Enabled: true, Level: "warn", Format: "logfmt"}, &buf)
	logger.Info("hidden message")
	logger.Warn("visible message", "path", "/unsorted/AlbumX")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "/unsorted/AlbumX") {
		t.Errorf("expected warn message with attributes, got %q", out)
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.Logger{Enabled: true, Level: "info", Format: "json"}, &buf)
	logger.Info("Successfully imported", "path", "/unsorted/AlbumX")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", line, err)
	}
	if entry["path"] != "/unsorted/AlbumX" {
		t.Errorf("expected path attribute, got %v", entry)
	}
}
