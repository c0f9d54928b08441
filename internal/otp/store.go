// Package otp issues and verifies the one-time codes used during
// registration. The service is explicitly constructed with its clock and
// store so nothing lives in package-level state.
package otp

import (
	"sync"
	"time"
)

// entry pairs a code with the registration payload that is parked until the
// code is confirmed.
type entry struct {
	code      string
	payload   interface{}
	expiresAt time.Time
}

// Store is an expiring key-value store for pending codes. Expiry is judged
// against the injected clock, never the wall clock directly.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Put stores a code under the key, replacing any previous one.
func (s *Store) Put(key, code string, payload interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		code:      code,
		payload:   payload,
		expiresAt: s.now().Add(ttl),
	}
}

// Get returns the live code and payload for the key. Expired entries are
// removed on access.
func (s *Store) Get(key string) (code string, payload interface{}, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[key]
	if !found {
		return "", nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", nil, false
	}
	return e.code, e.payload, true
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of entries, live or not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
