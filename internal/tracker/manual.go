package tracker

import (
	"strings"
	"time"
)

const clockLayout = "15:04"

// ParseClock places an HH:MM wall-clock reading on the calendar day of day,
// in day's location.
func ParseClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, invalid("clock", "expected HH:MM, got "+quote(clock))
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// manualWindow resolves a same-day start/end pair. End must be strictly
// after start; a window that crosses midnight is rejected.
func manualWindow(day time.Time, startClock, endClock string) (time.Time, time.Time, error) {
	start, err := ParseClock(day, startClock)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("start", "expected HH:MM, got "+quote(startClock))
	}
	end, err := ParseClock(day, endClock)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("end", "expected HH:MM, got "+quote(endClock))
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, invalid("end", "must be after start")
	}
	return start, end, nil
}

func quote(s string) string {
	return `"` + s + `"`
}
