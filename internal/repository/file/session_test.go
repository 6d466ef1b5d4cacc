package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arklim/selfstudy-web/internal/repository"
)

func newTestStore(t *testing.T) (*SessionStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewSessionStore(path), path
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store, path := newTestStore(t)

	if store.Authenticated() {
		t.Fatal("fresh store must not be authenticated")
	}

	if err := store.Set("access-1", "refresh-1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	access, ok := store.Access()
	if !ok || access != "access-1" {
		t.Fatalf("unexpected access credential %q (ok=%v)", access, ok)
	}
	refresh, ok := store.Refresh()
	if !ok || refresh != "refresh-1" {
		t.Fatalf("unexpected refresh credential %q (ok=%v)", refresh, ok)
	}
	if !store.Authenticated() {
		t.Fatal("expected authenticated after set")
	}

	// A second store on the same path sees the persisted pair.
	reopened := NewSessionStore(path)
	if !reopened.Authenticated() {
		t.Fatal("expected persisted pair to survive reopen")
	}
}

func TestSessionStoreRejectsIncompletePair(t *testing.T) {
	store, _ := newTestStore(t)

	cases := []struct {
		name            string
		access, refresh string
	}{
		{name: "missing refresh", access: "access-1"},
		{name: "missing access", refresh: "refresh-1"},
		{name: "both missing"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Set(tc.access, tc.refresh)
			if !errors.Is(err, repository.ErrIncompletePair) {
				t.Fatalf("expected ErrIncompletePair, got %v", err)
			}
		})
	}

	if store.Authenticated() {
		t.Fatal("rejected writes must not leave credentials behind")
	}
}

func TestSessionStoreSetReplacesWholePair(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Set("access-1", "refresh-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set("access-2", "refresh-2"); err != nil {
		t.Fatalf("replace: %v", err)
	}

	access, _ := store.Access()
	refresh, _ := store.Refresh()
	if access != "access-2" || refresh != "refresh-2" {
		t.Fatalf("expected replaced pair, got %q / %q", access, refresh)
	}
}

func TestSessionStoreClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Clear(); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}

	if err := store.Set("access-1", "refresh-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Authenticated() {
		t.Fatal("expected cleared store to be unauthenticated")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestSessionStoreFailsClosedOnCorruptFile(t *testing.T) {
	store, path := newTestStore(t)

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if store.Authenticated() {
		t.Fatal("corrupt file must read as no credentials")
	}

	// Half a pair on disk is also treated as absent.
	if err := os.WriteFile(path, []byte(`{"access_token":"a"}`), 0o600); err != nil {
		t.Fatalf("write partial file: %v", err)
	}
	if store.Authenticated() {
		t.Fatal("partial pair must read as no credentials")
	}
}

func TestSessionStoreFilePermissions(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.Set("access-1", "refresh-1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected file mode 0600, got %o", perm)
	}
}
