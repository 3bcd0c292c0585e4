package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// captureLogOutput reinitializes the logger against a buffer, runs f, and
// restores the default configuration.
func captureLogOutput(level Level, format Format, f func()) string {
	var buf bytes.Buffer
	SetOutput(&buf)
	InitLogger(level, format)

	f()

	SetOutput(os.Stderr)
	InitLogger(LevelWarn, FormatJSON)
	return buf.String()
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{"Debug level JSON format", LevelDebug, FormatJSON},
		{"Info level Text format", LevelInfo, FormatText},
		{"Error level JSON format", LevelError, FormatJSON},
		{"Default level (invalid value)", Level(999), FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
	InitLogger(LevelWarn, FormatJSON)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelWarn},
		{"", LevelWarn},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("TEXT"); got != FormatText {
		t.Errorf("ParseFormat(TEXT) = %d, want FormatText", got)
	}
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %d, want FormatJSON", got)
	}
	if got := ParseFormat("xml"); got != FormatJSON {
		t.Errorf("ParseFormat(xml) = %d, want FormatJSON", got)
	}
}

func TestLevelFiltering(t *testing.T) {
	output := captureLogOutput(LevelWarn, FormatJSON, func() {
		Debug("hidden debug")
		Info("hidden info")
		Warn("visible warn")
		Error("visible error")
	})

	if strings.Contains(output, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %s", output)
	}
	if !strings.Contains(output, "visible warn") || !strings.Contains(output, "visible error") {
		t.Errorf("expected warn and error records, got %s", output)
	}
}

func TestTimestampFormat(t *testing.T) {
	output := captureLogOutput(LevelInfo, FormatJSON, func() {
		Info("stamped")
	})

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &record); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, output)
	}
	ts, ok := record["time"].(string)
	if !ok {
		t.Fatalf("missing time attribute in %v", record)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestTextFormat(t *testing.T) {
	output := captureLogOutput(LevelInfo, FormatText, func() {
		Info("plain", "key", "value")
	})
	if !strings.Contains(output, "msg=plain") || !strings.Contains(output, "key=value") {
		t.Errorf("unexpected text output: %s", output)
	}
}

func TestQueryID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"Context with query ID", WithQueryID(context.Background(), "q-1"), "q-1"},
		{"Context without query ID", context.Background(), ""},
		{"Context with wrong type value", context.WithValue(context.Background(), QueryIDKey, 12345), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetQueryID(tt.ctx); got != tt.expected {
				t.Errorf("GetQueryID() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestContextLogging(t *testing.T) {
	ctx := WithQueryID(context.Background(), "abc-123")
	output := captureLogOutput(LevelDebug, FormatJSON, func() {
		DebugContext(ctx, "debug ctx")
		InfoContext(ctx, "info ctx")
		WarnContext(ctx, "warn ctx")
		ErrorContext(ctx, "error ctx")
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 records, got %d: %s", len(lines), output)
	}
	for _, line := range lines {
		if !strings.Contains(line, `"query_id":"abc-123"`) {
			t.Errorf("record missing query_id: %s", line)
		}
	}
}

func TestDomainEvents(t *testing.T) {
	ctx := WithQueryID(context.Background(), "q-42")
	output := captureLogOutput(LevelDebug, FormatJSON, func() {
		DatabaseOpened("test.db", 4096, 3)
		PageLoaded(2, "leaf", 17)
		QueryCompleted(ctx, "select * from t;", 5, 3*time.Millisecond)
		QueryFailed(ctx, "select x from t;", errors.New("no such column: x"))
	})

	checks := []string{
		`"msg":"database_opened"`, `"page_size":4096`, `"tables":3`,
		`"msg":"page_loaded"`, `"pgno":2`, `"page_type":"leaf"`, `"cells":17`,
		`"msg":"query_completed"`, `"rows":5`, `"duration_ms":3`,
		`"msg":"query_failed"`, `"error":"no such column: x"`,
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s\n%s", want, output)
		}
	}
}
