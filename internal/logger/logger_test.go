package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_ReturnsJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, slog.LevelInfo)

	l.Info("timer stopped", slog.String("user_id", "dev"), slog.Int64("duration", 90))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON log output, got error: %v\nraw output: %s", err, buf.String())
	}
	if entry["msg"] != "timer stopped" {
		t.Errorf("msg = %q, want %q", entry["msg"], "timer stopped")
	}
	if entry["user_id"] != "dev" {
		t.Errorf("user_id = %q, want %q", entry["user_id"], "dev")
	}
	if entry["duration"] != float64(90) {
		t.Errorf("duration = %v, want 90", entry["duration"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected 'time' field in JSON log output")
	}
}

func TestSetup_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, slog.LevelWarn)

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %s", buf.String())
	}

	l.Warn("save failed")
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %q, want %q", entry["level"], "WARN")
	}
}

func TestOpenFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	for _, msg := range []string{"first", "second"} {
		l, c, err := OpenFile(path, slog.LevelInfo)
		if err != nil {
			t.Fatal(err)
		}
		l.Info(msg)
		c.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), data)
	}
}

func TestOpenFile_EmptyPathDiscards(t *testing.T) {
	l, c, err := OpenFile("", slog.LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	l.Info("nowhere")
}
