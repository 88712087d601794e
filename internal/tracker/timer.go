package tracker

import (
	"strings"
	"time"
)

// StoppedTimer returns the initial timer record.
func StoppedTimer() TimerState {
	return TimerState{Status: StatusStopped}
}

// Active reports whether the timer is running or paused.
func (s TimerState) Active() bool {
	return s.Status == StatusRunning || s.Status == StatusPaused
}

// Elapsed returns the tracked time at now. It has no side effects:
// running timers add the open segment, paused timers report the folded
// total and stopped timers report zero.
func (s TimerState) Elapsed(now time.Time) time.Duration {
	switch s.Status {
	case StatusRunning:
		return time.Duration(s.AccumulatedTime+s.segmentMillis(now)) * time.Millisecond
	case StatusPaused:
		return time.Duration(s.AccumulatedTime) * time.Millisecond
	}
	return 0
}

func (s TimerState) segmentMillis(now time.Time) int64 {
	if s.StartTime == nil {
		return 0
	}
	ms := now.Sub(*s.StartTime).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

func (s TimerState) start(activity, ticket string, now time.Time) (TimerState, error) {
	if s.Status != StatusStopped {
		return s, transitionError("start", s.Status)
	}
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return s, invalid("activity", "must not be empty")
	}
	start := now
	return TimerState{
		Status:          StatusRunning,
		StartTime:       &start,
		CurrentActivity: activity,
		RitmCode:        normalizeCode(ticket),
	}, nil
}

func (s TimerState) pause(now time.Time) (TimerState, error) {
	if s.Status != StatusRunning {
		return s, transitionError("pause", s.Status)
	}
	s.AccumulatedTime += s.segmentMillis(now)
	s.StartTime = nil
	s.Status = StatusPaused
	return s, nil
}

func (s TimerState) resume(now time.Time) (TimerState, error) {
	if s.Status != StatusPaused {
		return s, transitionError("resume", s.Status)
	}
	start := now
	s.StartTime = &start
	s.Status = StatusRunning
	return s, nil
}

// stop folds the open segment and returns the total in milliseconds along
// with the reset record.
func (s TimerState) stop(now time.Time) (int64, TimerState, error) {
	if !s.Active() {
		return 0, s, transitionError("stop", s.Status)
	}
	total := s.AccumulatedTime
	if s.Status == StatusRunning {
		total += s.segmentMillis(now)
	}
	return total, StoppedTimer(), nil
}
