// Package session keeps per-user conversation state in memory with a
// sliding expiry, so an abandoned flow does not pin a user forever.
package session

import (
	"sync"
	"time"
)

// DefaultTTL is the idle lifetime of a session when none is configured.
const DefaultTTL = 30 * time.Minute

type entry[T any] struct {
	value    T
	deadline time.Time
}

// Store holds one value of type T per user id. Every Get and Set slides
// the expiry forward; a background janitor drops idle entries.
type Store[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int64]entry[T]
	stop    chan struct{}
	once    sync.Once
}

// NewStore builds a Store with the given idle TTL. ttl <= 0 falls back
// to DefaultTTL.
func NewStore[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store[T]{
		ttl:     ttl,
		entries: make(map[int64]entry[T]),
		stop:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Get returns the live session of the user, sliding its expiry.
func (s *Store[T]) Get(userID int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(e.deadline) {
		delete(s.entries, userID)
		var zero T
		return zero, false
	}

	e.deadline = time.Now().Add(s.ttl)
	s.entries[userID] = e
	return e.value, true
}

// Set stores the user's session and resets its expiry.
func (s *Store[T]) Set(userID int64, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = entry[T]{value: value, deadline: time.Now().Add(s.ttl)}
}

// Delete removes the user's session if present.
func (s *Store[T]) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Has reports whether the user has a live session without sliding it.
func (s *Store[T]) Has(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[userID]
	return ok && !time.Now().After(e.deadline)
}

// Len returns the number of stored entries, expired or not.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the janitor. Safe to call more than once.
func (s *Store[T]) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store[T]) janitor() {
	interval := s.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *Store[T]) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.After(e.deadline) {
			delete(s.entries, id)
		}
	}
}
