package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/timedesk/internal/tracker"
)

func sampleEntries() []tracker.TimeEntry {
	now := time.Now().UTC()
	end := now
	deleted := now

	return []tracker.TimeEntry{
		{
			ID:        "e1",
			UserID:    "dev",
			Activity:  "Fix bug [ritm001234]",
			StartTime: now.Add(-1 * time.Hour),
			EndTime:   &end,
			Duration:  3600,
			Date:      "2026-05-12",
			Type:      tracker.EntryTimer,
		},
		{
			ID:        "e2",
			UserID:    "admin",
			Activity:  "Planning",
			RitmCode:  "RITM9999",
			StartTime: now.Add(-30 * time.Minute),
			EndTime:   &end,
			Duration:  1800,
			Date:      "2026-05-12",
			Type:      tracker.EntryManual,
		},
		{
			ID:        "e3",
			UserID:    "dev",
			Activity:  "Removed",
			StartTime: now,
			Duration:  10,
			Date:      "2026-05-12",
			Type:      tracker.EntryTimer,
			DeletedAt: &deleted,
		},
		{
			ID:        "e4",
			UserID:    "dev",
			Activity:  "Imported",
			StartTime: now.Add(-10 * time.Minute),
			Duration:  0,
			Date:      "2026-05-12",
			Type:      tracker.EntryManual,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleEntries(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 3 live rows; the tombstoned entry is skipped
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "e1" || row[1] != "dev" {
		t.Fatalf("ID/User = %q/%q", row[0], row[1])
	}
	if row[3] != "RITM001234" {
		t.Fatalf("Ticket = %q, want RITM001234", row[3])
	}
	if row[7] != "3600" || row[8] != "01:00:00" {
		t.Fatalf("Duration = %q / %q", row[7], row[8])
	}
	if row[9] != "timer" {
		t.Fatalf("Type = %q", row[9])
	}
	if records[2][3] != "RITM9999" {
		t.Fatalf("explicit ticket = %q", records[2][3])
	}

	if records[3][0] != "e4" || records[3][6] != "" {
		t.Fatalf("entry without end time: %v", records[3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	entries := []tracker.TimeEntry{
		{ID: "x", UserID: "dev", Activity: `review "draft", part 2`, StartTime: time.Now(), Duration: 60},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(entries, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][2] != `review "draft", part 2` {
		t.Fatalf("activity mangled: %q", records[1][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleEntries(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Entries) != 3 {
		t.Fatalf("count = %d, entries = %d, want 3", result.Count, len(result.Entries))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	e := result.Entries[0]
	if e.ID != "e1" || e.UserID != "dev" || e.Ticket != "RITM001234" {
		t.Fatalf("unexpected first entry: %+v", e)
	}
	if e.DurationSec != 3600 || e.Duration != "01:00:00" {
		t.Fatalf("duration = %d / %q", e.DurationSec, e.Duration)
	}
	for _, e := range result.Entries {
		if e.ID == "e3" {
			t.Fatal("tombstoned entry exported")
		}
		if _, err := time.Parse(time.RFC3339, e.StartTime); err != nil {
			t.Fatalf("start_time is not valid RFC3339: %q", e.StartTime)
		}
	}
	if result.Entries[2].EndTime != "" {
		t.Fatalf("missing end_time should be empty, got %q", result.Entries[2].EndTime)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Entries != nil {
		t.Fatal("entries should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
