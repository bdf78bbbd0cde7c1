// Package storage is the keyed persistence medium shared by every Taskify
// aggregate. It mirrors the browser localStorage contract the app grew up
// with: string values under well-known keys, and a change broadcast after
// every write so independently rendered views converge without polling.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Store is a keyed string store over SQLite with per-key change
// notification. All Taskify state (tasks, points, achievements, streaks)
// lives here under its own key.
type Store struct {
	db *sql.DB

	mu     sync.Mutex
	nextID int
	subs   map[int]func(key, newValue string)
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:   db,
		subs: map[int]func(key, newValue string){},
	}
}

// Get returns the value under key. The second result is false when the key
// has never been written.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return v, true, nil
}

// Put upserts the value under key and notifies subscribers. Notification is
// synchronous and fire-and-forget: subscriber panics are not recovered, but
// subscriber errors cannot fail the write (it is already committed).
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	s.notify(key, value)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	s.notify(key, "")
	return nil
}

// Subscribe registers fn to run after every write, in the writing
// goroutine. The returned cancel func removes the subscription.
func (s *Store) Subscribe(fn func(key, newValue string)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(key, newValue string) {
	s.mu.Lock()
	fns := make([]func(string, string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key, newValue)
	}
}
