// Package notify holds the client-side notification state: an in-memory
// store of notification records, a sync engine that reconciles it against
// the Sayonika API, and a background poller for the unread badge.
package notify

import (
	"sync"

	"github.com/sayonika/sayonika-tui/pkg/domain"
)

// Store is the session-scoped, ordered collection of notification records.
// Records are kept newest first, matching server order; the only insertion
// that does not come from a full replacement is Prepend at the head.
//
// Mutations on a missing id are silent no-ops: the UI can race with server
// state, so absence is expected, not a fault. Only the sync engine writes;
// the UI layer reads and subscribes.
type Store struct {
	mu        sync.Mutex
	records   []domain.Notification
	observers []func()
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn to run after every store mutation. Observers are
// invoked synchronously, outside the store lock, in registration order.
// They must not mutate the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// ReplaceAll swaps the entire record set for a fresh server snapshot.
func (s *Store) ReplaceAll(records []domain.Notification) {
	s.mu.Lock()
	s.records = make([]domain.Notification, len(records))
	copy(s.records, records)
	s.mu.Unlock()
	s.notify()
}

// MarkRead sets the read flag on one record. No-op if the id is absent.
func (s *Store) MarkRead(id int64) {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Read = true
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.notify()
	}
}

// MarkAllRead sets the read flag on every record.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	for i := range s.records {
		s.records[i].Read = true
	}
	s.mu.Unlock()
	s.notify()
}

// Remove deletes one record. No-op if the id is absent.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.notify()
	}
}

// Prepend inserts a record at the head, used for real-time pushes.
func (s *Store) Prepend(rec domain.Notification) {
	s.mu.Lock()
	s.records = append([]domain.Notification{rec}, s.records...)
	s.mu.Unlock()
	s.notify()
}

// UnreadCount returns the number of records not yet read. Always derived
// from the records, never tracked separately.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.records {
		if !s.records[i].Read {
			n++
		}
	}
	return n
}

// All returns a copy of the records, newest first.
func (s *Store) All() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) notify() {
	s.mu.Lock()
	obs := make([]func(), len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()
	for _, fn := range obs {
		fn()
	}
}
