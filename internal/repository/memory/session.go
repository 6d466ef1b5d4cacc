package memory

import (
	"sync"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/repository"
)

// SessionStore keeps the credential pair in memory only. Used for tests and
// ephemeral runs where nothing should survive a restart.
type SessionStore struct {
	mu   sync.RWMutex
	pair domain.CredentialPair
}

// NewSessionStore constructs an empty in-memory store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Set replaces the whole pair.
func (s *SessionStore) Set(access, refresh string) error {
	pair := domain.CredentialPair{Access: access, Refresh: refresh}
	if !pair.Complete() {
		return repository.ErrIncompletePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

// Access returns the stored access credential, if present.
func (s *SessionStore) Access() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Access, s.pair.Access != ""
}

// Refresh returns the stored refresh credential, if present.
func (s *SessionStore) Refresh() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Refresh, s.pair.Refresh != ""
}

// Clear drops the pair. Idempotent.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = domain.CredentialPair{}
	return nil
}

// Authenticated reports whether an access credential is present.
func (s *SessionStore) Authenticated() bool {
	_, ok := s.Access()
	return ok
}
