package memory

import (
	"context"
	"sync"
	"time"
)

// RateLimitStore keeps sliding-window attempt timestamps in process memory.
// Good enough for a single-instance gateway; attempts vanish on restart.
type RateLimitStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

// NewRateLimitStore constructs an empty store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{attempts: make(map[string][]time.Time)}
}

// CountAttempts returns the number of attempts inside the window.
func (s *RateLimitStore) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.trim(identifier, window, reference)), nil
}

// RecordAttempt appends one attempt timestamp.
func (s *RateLimitStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

// OldestAttempt returns the earliest attempt still inside the window.
func (s *RateLimitStore) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.trim(identifier, window, reference)
	if len(kept) == 0 {
		return time.Time{}, false, nil
	}

	oldest := kept[0]
	for _, at := range kept[1:] {
		if at.Before(oldest) {
			oldest = at
		}
	}
	return oldest, true, nil
}

// trim drops attempts older than the window. Caller holds the lock.
func (s *RateLimitStore) trim(identifier string, window time.Duration, reference time.Time) []time.Time {
	cutoff := reference.Add(-window)
	kept := s.attempts[identifier][:0]
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) == 0 {
		delete(s.attempts, identifier)
		return nil
	}

	s.attempts[identifier] = kept
	return kept
}
