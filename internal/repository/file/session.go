package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/repository"
)

// SessionStore persists the credential pair as a JSON document on disk, the
// durable-storage analogue of the browser's two well-known localStorage keys.
// Writes go through a temp file and rename so a reader never observes a
// half-updated pair. Reads fail closed: any I/O or parse error reports
// "no credentials".
type SessionStore struct {
	mu   sync.Mutex
	path string
}

// DefaultPath resolves the per-user session file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "selfstudy", "session.json"), nil
}

// NewSessionStore constructs a store writing to the given path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Set persists both credentials atomically, overwriting any prior pair.
func (s *SessionStore) Set(access, refresh string) error {
	pair := domain.CredentialPair{Access: access, Refresh: refresh}
	if !pair.Complete() {
		return repository.ErrIncompletePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	payload, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode credential pair: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}

	return nil
}

// Access returns the stored access credential, if present.
func (s *SessionStore) Access() (string, bool) {
	pair := s.load()
	return pair.Access, pair.Access != ""
}

// Refresh returns the stored refresh credential, if present.
func (s *SessionStore) Refresh() (string, bool) {
	pair := s.load()
	return pair.Refresh, pair.Refresh != ""
}

// Clear removes both credentials. Removing an absent file is not an error.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Authenticated reports whether an access credential is present.
func (s *SessionStore) Authenticated() bool {
	_, ok := s.Access()
	return ok
}

func (s *SessionStore) load() domain.CredentialPair {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.CredentialPair{}
	}

	var pair domain.CredentialPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return domain.CredentialPair{}
	}
	if !pair.Complete() {
		// A stored pair missing either half is treated as absent.
		return domain.CredentialPair{}
	}
	return pair
}
