package tracker

import (
	"reflect"
	"testing"
	"time"
)

func TestExtractTicketCode(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Fix bug [RITM001234]", "RITM001234"},
		{"review ritm55 and RITM66", "RITM55"},
		{"no ticket here", ""},
		{"RITM without digits", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractTicketCode(tt.text); got != tt.want {
			t.Errorf("ExtractTicketCode(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestResolveTicketCode(t *testing.T) {
	if got := ResolveTicketCode("", "Fix bug [RITM001234]"); got != "RITM001234" {
		t.Fatalf("extracted = %q", got)
	}
	if got := ResolveTicketCode("RITM9999", "Plain activity"); got != "RITM9999" {
		t.Fatalf("explicit = %q", got)
	}
	if got := ResolveTicketCode("ritm1", "Work [RITM2]"); got != "RITM1" {
		t.Fatalf("explicit should win, got %q", got)
	}
}

func TestTicketRollup(t *testing.T) {
	entries := []TimeEntry{
		{Activity: "Fix bug [RITM001234]", Duration: 100},
		{Activity: "Plain", RitmCode: "RITM9999", Duration: 50},
		{Activity: "no code", Duration: 1000},
		{Activity: "more on ritm001234", Duration: 25},
		{Activity: "gone [RITM001234]", Duration: 7, DeletedAt: &time.Time{}},
	}
	statuses := []RitmStatus{{Code: "RITM9999", Status: TicketClosed}}

	got := TicketRollup(entries, statuses)
	want := []TicketSummary{
		{Code: "RITM001234", Status: TicketOpen, Duration: 125, Entries: 2},
		{Code: "RITM9999", Status: TicketClosed, Duration: 50, Entries: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rollup:\n got %+v\nwant %+v", got, want)
	}
}

func TestTicketRollupEmpty(t *testing.T) {
	if got := TicketRollup(nil, nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestTopActivities(t *testing.T) {
	var entries []TimeEntry
	add := func(activity string, secs int64) {
		entries = append(entries, TimeEntry{Activity: activity, Duration: secs})
	}
	add("a", 3600)
	add("b", 7200)
	add("c", 1800)
	add("a", 3600) // a = 2h, ties with b
	add("d", 60)
	add("e", 30)
	add("f", 20)
	add("g", 10)

	got := TopActivities(entries, DefaultTopActivities)
	if len(got) != 6 {
		t.Fatalf("got %d bars, want 6", len(got))
	}
	wantOrder := []string{"a", "b", "c", "d", "e", "f"}
	for i, w := range wantOrder {
		if got[i].Activity != w {
			t.Fatalf("position %d = %q, want %q (%+v)", i, got[i].Activity, w, got)
		}
	}
	if got[0].Hours != 2 || got[2].Hours != 0.5 || got[3].Hours != 0.02 {
		t.Fatalf("hours not rounded to 2 decimals: %+v", got)
	}
}

func TestTopActivitiesLabelTruncation(t *testing.T) {
	long := "Quarterly planning with the platform team"
	entries := []TimeEntry{
		{Activity: long, Duration: 60},
		{Activity: long[:30], Duration: 60},
	}
	got := TopActivities(entries, 6)
	if len(got) != 2 {
		t.Fatalf("labels must not merge grouping keys: %+v", got)
	}
	if got[0].Label != long[:25] || got[0].Activity != long {
		t.Fatalf("label = %q, activity = %q", got[0].Label, got[0].Activity)
	}
}

func TestTruncateLabelRunes(t *testing.T) {
	if got := TruncateLabel("Reunião com equipe de produto", 10); got != "Reunião co" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateLabel("short", 25); got != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]TimeEntry{{Duration: 10}, {Duration: 15}, {Duration: 100, DeletedAt: &time.Time{}}})
	want := EntrySummary{TotalSeconds: 25, Count: 2, AverageSeconds: 13}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if (Summarize(nil) != EntrySummary{}) {
		t.Fatal("empty summary should be zero")
	}
}

func TestFilterDatesUsers(t *testing.T) {
	entries := []TimeEntry{
		{ID: "1", UserID: "dev", Date: "2026-05-10"},
		{ID: "2", UserID: "admin", Date: "2026-05-12"},
		{ID: "3", UserID: "dev", Date: "2026-05-12"},
		{ID: "4", UserID: "ghost", Date: "2026-05-01", DeletedAt: &time.Time{}},
	}

	if got := FilterEntries(entries, EntryFilter{}); len(got) != 3 {
		t.Fatalf("empty filter should keep live entries, got %d", len(got))
	}
	got := FilterEntries(entries, EntryFilter{Date: "2026-05-12", UserID: "dev"})
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("filtered: %+v", got)
	}

	if d := Dates(entries); !reflect.DeepEqual(d, []string{"2026-05-12", "2026-05-10"}) {
		t.Fatalf("dates = %v", d)
	}
	if u := Users(entries); !reflect.DeepEqual(u, []string{"dev", "admin"}) {
		t.Fatalf("users = %v", u)
	}
}

func TestInPeriodCalendarDays(t *testing.T) {
	// Late in the day: the window is measured in dates, not 24h blocks.
	today := time.Date(2026, 5, 12, 23, 59, 0, 0, time.UTC)
	entries := []TimeEntry{
		{UserID: "dev", Date: "2026-05-11"},
		{UserID: "dev", Date: "2026-05-10"},
	}
	if got := InPeriod(entries, "dev", today, 1); len(got) != 1 {
		t.Fatalf("1-day window should include yesterday only, got %+v", got)
	}
}

func TestTimerStateElapsed(t *testing.T) {
	now := time.Date(2026, 5, 12, 9, 0, 10, 0, time.UTC)
	start := now.Add(-4 * time.Second)

	running := TimerState{Status: StatusRunning, StartTime: &start, AccumulatedTime: 1000}
	if got := running.Elapsed(now); got != 5*time.Second {
		t.Fatalf("running = %v", got)
	}
	paused := TimerState{Status: StatusPaused, AccumulatedTime: 2500}
	if got := paused.Elapsed(now); got != 2500*time.Millisecond {
		t.Fatalf("paused = %v", got)
	}
	if got := StoppedTimer().Elapsed(now); got != 0 {
		t.Fatalf("stopped = %v", got)
	}

	future := now.Add(time.Minute)
	skewed := TimerState{Status: StatusRunning, StartTime: &future, AccumulatedTime: 1000}
	if got := skewed.Elapsed(now); got != time.Second {
		t.Fatalf("a start time in the future should not go negative: %v", got)
	}
}

func TestParseClock(t *testing.T) {
	day := time.Date(2026, 5, 12, 15, 0, 0, 0, time.UTC)
	got, err := ParseClock(day, "9:05")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, 5, 12, 9, 5, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, bad := range []string{"", "0900", "12:60", "ab:cd"} {
		if _, err := ParseClock(day, bad); err == nil {
			t.Errorf("ParseClock(%q) should fail", bad)
		}
	}
}
