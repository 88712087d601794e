// Package tracker holds the timer state machine, the entry collection and
// the aggregation queries built on top of them.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record keys used with the Gateway.
const (
	KeyEntries      = "entries"
	KeyTimer        = "timer"
	KeyRitmStatuses = "ritm_statuses"
)

// Gateway persists JSON-serializable records under string keys.
type Gateway interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithWarningHandler registers fn to receive non-fatal persistence errors.
// fn runs after the tracker's lock is released.
func WithWarningHandler(fn func(error)) Option {
	return func(t *Tracker) { t.onWarn = fn }
}

// WithIDGenerator replaces the UUID entry id generator.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// Tracker owns the per-user timers, the entry list and ticket statuses.
// Every mutation is written through to the gateway before it returns; a
// failed write is reported as a warning and the in-memory state stays
// authoritative.
type Tracker struct {
	gw     Gateway
	now    func() time.Time
	newID  func() string
	log    *slog.Logger
	onWarn func(error)

	mu       sync.Mutex
	entries  []TimeEntry
	timers   map[string]TimerState
	statuses []RitmStatus
}

// Open loads the tracker's records from gw. Records that fail to load are
// reported as warnings and start empty.
func Open(gw Gateway, opts ...Option) *Tracker {
	t := &Tracker{
		gw:     gw,
		now:    time.Now,
		newID:  uuid.NewString,
		log:    slog.Default(),
		timers: make(map[string]TimerState),
	}
	for _, opt := range opts {
		opt(t)
	}

	var warns []error
	if _, err := gw.Load(KeyEntries, &t.entries); err != nil {
		t.entries = nil
		warns = append(warns, fmt.Errorf("load %s: %w", KeyEntries, err))
	}
	if _, err := gw.Load(KeyTimer, &t.timers); err != nil || t.timers == nil {
		if err != nil {
			warns = append(warns, fmt.Errorf("load %s: %w", KeyTimer, err))
		}
		t.timers = make(map[string]TimerState)
	}
	if _, err := gw.Load(KeyRitmStatuses, &t.statuses); err != nil {
		t.statuses = nil
		warns = append(warns, fmt.Errorf("load %s: %w", KeyRitmStatuses, err))
	}
	for _, err := range warns {
		t.warn(err)
	}

	t.log.Info("tracker loaded",
		"entries", len(t.entries),
		"timers", len(t.timers),
		"ritm_statuses", len(t.statuses),
	)
	return t
}

// Close flushes every record to the gateway.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Join(
		t.save(KeyEntries, t.entries),
		t.save(KeyTimer, t.timers),
		t.save(KeyRitmStatuses, t.statuses),
	)
}

func (t *Tracker) save(key string, v any) error {
	if err := t.gw.Save(key, v); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (t *Tracker) warn(err error) {
	if err == nil {
		return
	}
	t.log.Warn("persistence failed", "error", err)
	if t.onWarn != nil {
		t.onWarn(err)
	}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return invalid("user", "no authenticated user")
	}
	return nil
}

// --- Timer ---

// Timer returns a copy of the user's timer. Users without a timer read as
// stopped.
func (t *Tracker) Timer(userID string) TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneTimer(t.timerFor(userID))
}

// Elapsed is the live reading of the user's timer. It never mutates state.
func (t *Tracker) Elapsed(userID string) time.Duration {
	t.mu.Lock()
	s := t.timerFor(userID)
	t.mu.Unlock()
	return s.Elapsed(t.now())
}

func (t *Tracker) timerFor(userID string) TimerState {
	if s, ok := t.timers[userID]; ok {
		return s
	}
	return StoppedTimer()
}

func (t *Tracker) setTimer(userID string, s TimerState) error {
	if s.Status == StatusStopped {
		delete(t.timers, userID)
	} else {
		t.timers[userID] = s
	}
	return t.save(KeyTimer, t.timers)
}

// StartTimer starts a stopped timer for activity, optionally tagged with a
// ticket code.
func (t *Tracker) StartTimer(userID, activity, ticket string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return t.transition(userID, func(s TimerState, now time.Time) (TimerState, error) {
		return s.start(activity, ticket, now)
	})
}

// PauseTimer folds the running segment into the accumulated total.
func (t *Tracker) PauseTimer(userID string) error {
	return t.transition(userID, TimerState.pause)
}

// ResumeTimer opens a new running segment on a paused timer.
func (t *Tracker) ResumeTimer(userID string) error {
	return t.transition(userID, TimerState.resume)
}

func (t *Tracker) transition(userID string, step func(TimerState, time.Time) (TimerState, error)) error {
	t.mu.Lock()
	next, err := step(t.timerFor(userID), t.now())
	if err != nil {
		t.mu.Unlock()
		return err
	}
	werr := t.setTimer(userID, next)
	t.mu.Unlock()

	t.warn(werr)
	return nil
}

// StopTimer ends a running or paused timer, appends the resulting entry and
// resets the timer.
func (t *Tracker) StopTimer(userID string) (TimeEntry, error) {
	t.mu.Lock()
	now := t.now()
	cur := t.timerFor(userID)
	totalMillis, next, err := cur.stop(now)
	if err != nil {
		t.mu.Unlock()
		return TimeEntry{}, err
	}

	end := now
	entry := TimeEntry{
		ID:        t.newID(),
		UserID:    userID,
		Activity:  cur.CurrentActivity,
		RitmCode:  cur.RitmCode,
		StartTime: now.Add(-time.Duration(totalMillis) * time.Millisecond),
		EndTime:   &end,
		Duration:  totalMillis / 1000,
		Date:      DateKey(now),
		Type:      EntryTimer,
	}
	t.entries = append(t.entries, entry)
	werr := errors.Join(t.save(KeyEntries, t.entries), t.setTimer(userID, next))
	t.mu.Unlock()

	t.warn(werr)
	return entry, nil
}

// --- Entries ---

// Append adds entry to the end of the list. An empty id is filled in.
func (t *Tracker) Append(entry TimeEntry) TimeEntry {
	t.mu.Lock()
	if entry.ID == "" {
		entry.ID = t.newID()
	}
	t.entries = append(t.entries, entry)
	werr := t.save(KeyEntries, t.entries)
	t.mu.Unlock()

	t.warn(werr)
	return entry
}

// AddManualEntry records a same-day interval given as HH:MM clocks.
func (t *Tracker) AddManualEntry(userID, activity, startClock, endClock, ticket string) (TimeEntry, error) {
	if err := requireUser(userID); err != nil {
		return TimeEntry{}, err
	}
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return TimeEntry{}, invalid("activity", "must not be empty")
	}
	now := t.now()
	start, end, err := manualWindow(now, startClock, endClock)
	if err != nil {
		return TimeEntry{}, err
	}

	return t.Append(TimeEntry{
		UserID:    userID,
		Activity:  activity,
		RitmCode:  normalizeCode(ticket),
		StartTime: start,
		EndTime:   &end,
		Duration:  int64(end.Sub(start) / time.Second),
		Date:      DateKey(now),
		Type:      EntryManual,
	}), nil
}

// DeleteEntry tombstones one of the user's entries. The record stays in
// the list but drops out of every query.
func (t *Tracker) DeleteEntry(userID, id string) error {
	t.mu.Lock()
	idx := -1
	for i, e := range t.entries {
		if e.ID == id && e.UserID == userID && !e.Deleted() {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return fmt.Errorf("delete %q: %w", id, ErrEntryNotFound)
	}
	now := t.now()
	t.entries[idx].DeletedAt = &now
	werr := t.save(KeyEntries, t.entries)
	t.mu.Unlock()

	t.warn(werr)
	return nil
}

// Entries returns every live entry in insertion order.
func (t *Tracker) Entries() []TimeEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return FilterEntries(t.entries, EntryFilter{})
}

// UserEntries returns the user's live entries in insertion order.
func (t *Tracker) UserEntries(userID string) []TimeEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return FilterEntries(t.entries, EntryFilter{UserID: userID})
}

// TodayTotal sums the user's entries dated today, in seconds.
func (t *Tracker) TodayTotal(userID string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TotalForDate(t.entries, userID, DateKey(t.now()))
}

// EntriesInPeriod returns the user's entries dated within the last days
// calendar days, today included.
func (t *Tracker) EntriesInPeriod(userID string, days int) []TimeEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return InPeriod(t.entries, userID, t.now(), days)
}

// TopActivities is the chart data for the user's last days calendar days.
func (t *Tracker) TopActivities(userID string, days, n int) []ActivityHours {
	return TopActivities(t.EntriesInPeriod(userID, days), n)
}

// --- Tickets ---

// TicketStatuses returns the recorded ticket statuses.
func (t *Tracker) TicketStatuses() []RitmStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]RitmStatus(nil), t.statuses...)
}

// Tickets rolls up ticket time for one user, or for everyone when userID is
// empty.
func (t *Tracker) Tickets(userID string) []TicketSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TicketRollup(FilterEntries(t.entries, EntryFilter{UserID: userID}), t.statuses)
}

// UpdateTicketStatus records status for code, creating the record on first
// use.
func (t *Tracker) UpdateTicketStatus(code string, status TicketStatus) error {
	code = normalizeCode(code)
	if code == "" {
		return invalid("code", "must not be empty")
	}
	if !status.Valid() {
		return invalid("status", "unknown status "+quote(string(status)))
	}

	t.mu.Lock()
	found := false
	for i := range t.statuses {
		if t.statuses[i].Code == code {
			t.statuses[i].Status = status
			found = true
			break
		}
	}
	if !found {
		t.statuses = append(t.statuses, RitmStatus{Code: code, Status: status})
	}
	werr := t.save(KeyRitmStatuses, t.statuses)
	t.mu.Unlock()

	t.warn(werr)
	return nil
}

func cloneTimer(s TimerState) TimerState {
	if s.StartTime != nil {
		st := *s.StartTime
		s.StartTime = &st
	}
	return s
}
