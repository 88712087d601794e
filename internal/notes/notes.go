// Package notes keeps a small list of free-form notes per user.
package notes

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a note id is unknown for the user.
var ErrNotFound = errors.New("note not found")

const defaultTitle = "New note"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Gateway persists one JSON document per key.
type Gateway interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

// Key returns the record key for a user's notes.
func Key(userID string) string {
	return "notes:" + userID
}

// Service caches each user's notes after first use and writes every change
// through to the gateway.
type Service struct {
	gw  Gateway
	log *slog.Logger
	now func() time.Time

	mu    sync.Mutex
	books map[string][]Note
}

func NewService(gw Gateway, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{gw: gw, log: log, now: time.Now, books: make(map[string][]Note)}
}

// book returns the user's cached notes, loading them on first access.
// Caller holds s.mu.
func (s *Service) book(userID string) []Note {
	if b, ok := s.books[userID]; ok {
		return b
	}
	var b []Note
	if _, err := s.gw.Load(Key(userID), &b); err != nil {
		s.log.Warn("load notes failed", "user_id", userID, "error", err)
		b = nil
	}
	s.books[userID] = b
	return b
}

func (s *Service) store(userID string, b []Note) {
	s.books[userID] = b
	if err := s.gw.Save(Key(userID), b); err != nil {
		s.log.Warn("save notes failed", "user_id", userID, "error", err)
	}
}

// List returns the user's notes, newest first.
func (s *Service) List(userID string) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Note(nil), s.book(userID)...)
}

// Create adds a note at the top of the list.
func (s *Service) Create(userID, title, content string) Note {
	now := s.now()
	n := Note{
		ID:        uuid.NewString(),
		Title:     cleanTitle(title),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(userID, append([]Note{n}, s.book(userID)...))
	return n
}

// Update replaces a note's title and content.
func (s *Service) Update(userID, id, title, content string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := append([]Note(nil), s.book(userID)...)
	for i := range b {
		if b[i].ID != id {
			continue
		}
		b[i].Title = cleanTitle(title)
		b[i].Content = content
		b[i].UpdatedAt = s.now()
		s.store(userID, b)
		return b[i], nil
	}
	return Note{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
}

// Delete removes a note.
func (s *Service) Delete(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.book(userID)
	kept := make([]Note, 0, len(b))
	for _, n := range b {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(b) {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	s.store(userID, kept)
	return nil
}

func cleanTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return defaultTitle
}
