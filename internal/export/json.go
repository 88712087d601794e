package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timedesk/internal/tracker"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Activity    string `json:"activity"`
	Ticket      string `json:"ticket,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Type        string `json:"type"`
}

// ToJSON writes the live entries to path as an indented document.
func ToJSON(entries []tracker.TimeEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		export.Entries = append(export.Entries, jsonEntry{
			ID:          e.ID,
			UserID:      e.UserID,
			Activity:    e.Activity,
			Ticket:      e.TicketCode(),
			Date:        e.Date,
			StartTime:   e.StartTime.Local().Format(time.RFC3339),
			EndTime:     formatEnd(e.EndTime),
			DurationSec: e.Duration,
			Duration:    formatDuration(e.Duration),
			Type:        string(e.Type),
		})
	}
	export.Count = len(export.Entries)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
