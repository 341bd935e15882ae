package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{input: "debug", want: zerolog.DebugLevel},
		{input: "info", want: zerolog.InfoLevel},
		{input: "warn", want: zerolog.WarnLevel},
		{input: "warning", want: zerolog.WarnLevel},
		{input: "error", want: zerolog.ErrorLevel},
		{input: "ERROR", want: zerolog.ErrorLevel},
		{input: "unknown", want: zerolog.InfoLevel},
		{input: "", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetupJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: "debug", Output: &buf})

	logger.Info().Str("identifier", "12345").Msg("Requesting registry data")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["identifier"] != "12345" {
		t.Errorf("identifier field = %v, want 12345", entry["identifier"])
	}
	if entry["message"] != "Requesting registry data" {
		t.Errorf("message field = %v", entry["message"])
	}
}

func TestSetupLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: "warn", Output: &buf})

	logger.Info().Msg("suppressed")
	logger.Warn().Msg("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info message logged despite warn level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn message missing from output")
	}
}

func TestNewLoggerComponentField(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Level: "debug", Output: &buf})

	logger := NewLogger("batch")
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"batch"`) {
		t.Errorf("component field missing: %q", buf.String())
	}
}
