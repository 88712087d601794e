// Package auth provides the demo login: a fixed credential table and a
// persisted session user. It is not a security boundary.
package auth

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// KeySessionUser is the record key holding the signed-in user.
const KeySessionUser = "session_user"

// ErrInvalidCredentials is returned for an unknown user or wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// User is the authenticated identity handed to the rest of the app.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type account struct {
	password string
	user     User
}

var demoAccounts = map[string]account{
	"admin": {password: "123", user: User{ID: "admin", Name: "Administrator", Role: RoleAdmin}},
	"dev":   {password: "123", user: User{ID: "dev", Name: "Developer", Role: RoleEmployee}},
}

// SessionStore persists the session record.
type SessionStore interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
	Delete(key string) error
}

// Service tracks the current session.
type Service struct {
	store SessionStore
	log   *slog.Logger

	mu   sync.Mutex
	user *User
}

// NewService restores a previous session from store, if any.
func NewService(store SessionStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{store: store, log: log}

	var u User
	ok, err := store.Load(KeySessionUser, &u)
	switch {
	case err != nil:
		log.Warn("restore session failed", "error", err)
	case ok && u.ID != "":
		s.user = &u
		log.Info("session restored", "user_id", u.ID)
	}
	return s
}

// Login checks the credentials and starts a session. A failed session
// write is logged; the in-memory session still starts.
func (s *Service) Login(username, password string) (User, error) {
	acct, ok := demoAccounts[strings.TrimSpace(username)]
	if !ok || acct.password != password {
		s.log.Info("login rejected", "username", username)
		return User{}, ErrInvalidCredentials
	}

	u := acct.user
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	if err := s.store.Save(KeySessionUser, u); err != nil {
		s.log.Warn("persist session failed", "user_id", u.ID, "error", err)
	}
	s.log.Info("login", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Logout ends the session.
func (s *Service) Logout() {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Delete(KeySessionUser); err != nil {
		s.log.Warn("clear session failed", "error", err)
	}
	if prev != nil {
		s.log.Info("logout", "user_id", prev.ID)
	}
}

// Current returns the signed-in user.
func (s *Service) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}
