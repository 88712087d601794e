package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timedesk/internal/tracker"
)

var csvHeader = []string{"ID", "User", "Activity", "Ticket", "Date", "Start", "End", "Duration (s)", "Duration", "Type"}

// ToCSV writes the live entries to path. Tombstoned entries are skipped.
func ToCSV(entries []tracker.TimeEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		row := []string{
			e.ID,
			e.UserID,
			e.Activity,
			e.TicketCode(),
			e.Date,
			e.StartTime.Local().Format(time.RFC3339),
			formatEnd(e.EndTime),
			fmt.Sprintf("%d", e.Duration),
			formatDuration(e.Duration),
			string(e.Type),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatEnd(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
