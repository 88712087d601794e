package tui

import (
	"time"

	"github.com/sadopc/timedesk/internal/tracker"
)

// timerModel is the view's handle on one user's tracker timer. It holds no
// timing state of its own; every read goes to the tracker.
type timerModel struct {
	tracker *tracker.Tracker
	userID  string
}

func newTimerModel(t *tracker.Tracker) timerModel {
	return timerModel{tracker: t}
}

func (t timerModel) state() tracker.TimerState {
	if t.userID == "" {
		return tracker.StoppedTimer()
	}
	return t.tracker.Timer(t.userID)
}

func (t timerModel) start(activity, ticket string) error {
	return t.tracker.StartTimer(t.userID, activityLabel(activity, ticket), ticket)
}

func (t timerModel) stop() (tracker.TimeEntry, error) {
	return t.tracker.StopTimer(t.userID)
}

// toggle pauses a running timer and resumes a paused one. It is a no-op when
// stopped.
func (t timerModel) toggle() error {
	switch t.state().Status {
	case tracker.StatusRunning:
		return t.tracker.PauseTimer(t.userID)
	case tracker.StatusPaused:
		return t.tracker.ResumeTimer(t.userID)
	}
	return nil
}

func (t timerModel) running() bool {
	return t.state().Active()
}

func (t timerModel) paused() bool {
	return t.state().Status == tracker.StatusPaused
}

func (t timerModel) currentElapsed() time.Duration {
	if t.userID == "" {
		return 0
	}
	return t.tracker.Elapsed(t.userID)
}
