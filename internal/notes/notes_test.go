package notes

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sadopc/timedesk/internal/store"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s, quiet), s
}

func TestCreateList(t *testing.T) {
	svc, _ := newTestService(t)

	first := svc.Create("dev", "Standup", "talk about RITM1")
	second := svc.Create("dev", "  ", "")

	if second.Title != defaultTitle {
		t.Fatalf("blank title should default, got %q", second.Title)
	}
	got := svc.List("dev")
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected newest first: %+v", got)
	}
	if len(svc.List("admin")) != 0 {
		t.Fatal("notes must be per user")
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	base := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	n := svc.Create("dev", "Draft", "")

	svc.now = func() time.Time { return base.Add(time.Hour) }
	updated, err := svc.Update("dev", n.ID, "Final", "body")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Final" || updated.Content != "body" {
		t.Fatalf("unexpected note: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(base.Add(time.Hour)) || !updated.CreatedAt.Equal(base) {
		t.Fatalf("timestamps wrong: %+v", updated)
	}

	if _, err := svc.Update("admin", n.ID, "x", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user's note: got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	a := svc.Create("dev", "a", "")
	svc.Create("dev", "b", "")

	if err := svc.Delete("dev", a.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete("dev", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
	if got := svc.List("dev"); len(got) != 1 || got[0].Title != "b" {
		t.Fatalf("unexpected notes: %+v", got)
	}
}

func TestPersistedPerUser(t *testing.T) {
	svc, s := newTestService(t)
	n := svc.Create("dev", "Keep me", "content")

	reloaded := NewService(s, quiet)
	got := reloaded.List("dev")
	if len(got) != 1 || got[0].ID != n.ID || got[0].Content != "content" {
		t.Fatalf("notes not persisted: %+v", got)
	}
	if _, ok, _ := s.Get(Key("dev")); !ok {
		t.Fatal("expected record under the user's key")
	}
}

type failingGateway struct{}

func (failingGateway) Load(string, any) (bool, error) { return false, errors.New("boom") }
func (failingGateway) Save(string, any) error         { return errors.New("boom") }

func TestFailuresKeepMemoryState(t *testing.T) {
	svc := NewService(failingGateway{}, quiet)
	n := svc.Create("dev", "t", "c")
	if got := svc.List("dev"); len(got) != 1 || got[0].ID != n.ID {
		t.Fatal("in-memory notes should survive a failed save")
	}
}
