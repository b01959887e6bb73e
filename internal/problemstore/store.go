// Package problemstore holds generated problems in memory until they are
// graded or expire. Answers never leave the process through this package;
// the grading path is the only reader of the full record.
package problemstore

import (
	"sync"
	"time"

	"github.com/mathlingo/mathlingo/internal/problems"
)

// DefaultTTL is how long a generated problem stays gradable.
const DefaultTTL = 30 * time.Minute

// Store is an in-memory TTL map keyed by problem id. Expiry is lazy:
// a record past its TTL is dropped on the Get that observes it, and
// Sweep removes the rest in bulk.
type Store struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry

	// now is the clock, replaceable in tests.
	now func() time.Time
}

type entry struct {
	problem  *problems.Problem
	storedAt time.Time
}

// New creates a Store with the default 30-minute TTL.
func New() *Store {
	return NewWithTTL(DefaultTTL)
}

// NewWithTTL creates a Store with a custom TTL. A non-positive ttl means
// records never expire.
func NewWithTTL(ttl time.Duration) *Store {
	return &Store{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

// Put stores p under id, resetting its expiry clock. An existing record
// with the same id is overwritten.
func (s *Store) Put(id string, p *problems.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = entry{problem: p, storedAt: s.now()}
}

// Get returns the record for id, or false if it is absent or expired.
// An expired record is removed on the way out.
func (s *Store) Get(id string) (*problems.Problem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[id]
	if !ok {
		return nil, false
	}
	if s.expired(e) {
		delete(s.m, id)
		return nil, false
	}
	return e.problem, true
}

// Delete removes the record for id if present.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

// Sweep removes every expired record and reports how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, e := range s.m {
		if s.expired(e) {
			delete(s.m, id)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of records currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Store) expired(e entry) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(e.storedAt) > s.ttl
}
