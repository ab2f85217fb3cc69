package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo, "json"))
	logger.Debug("hidden")
	logger.Info("Expense recorded", "group_id", "g1")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Errorf("Debug record written at info level: %s", line)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("Expected one JSON record, got %q: %v", line, err)
	}
	if record["msg"] != "Expense recorded" || record["group_id"] != "g1" {
		t.Errorf("Unexpected record: %v", record)
	}

	buf.Reset()
	slog.New(NewHandler(&buf, slog.LevelDebug, "text")).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected text record, got %q", buf.String())
	}
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	ctx := context.Background()

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	Setup()
	if slog.Default().Enabled(ctx, slog.LevelInfo) {
		t.Error("Expected info to be disabled at LOG_LEVEL=warn")
	}
	if !slog.Default().Enabled(ctx, slog.LevelWarn) {
		t.Error("Expected warn to be enabled at LOG_LEVEL=warn")
	}

	SetupWithLevel(slog.LevelDebug)
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Error("Expected debug to be enabled after SetupWithLevel")
	}
}
