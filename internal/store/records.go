package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Get returns the raw JSON stored under key. ok is false when the key has
// never been written.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get record %q: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the raw JSON stored under key.
func (s *Store) Put(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}

// Load decodes the document under key into v. It reports false and leaves v
// untouched when the key is absent.
func (s *Store) Load(key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode record %q: %w", key, err)
	}
	return true, nil
}

// Save encodes v as JSON and stores it under key.
func (s *Store) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", key, err)
	}
	return s.Put(key, string(data))
}
