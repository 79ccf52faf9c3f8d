// Package session holds the authenticated session for the current
// pantry process: the bearer token and the admin flag parsed from the
// login response.
//
// The store is the single source of truth for "am I authenticated,
// and with what privilege". It is constructed once at startup, passed
// explicitly to the gateway and the entity collections, and cleared on
// logout or when the server rejects the credential.
package session

import (
	"fmt"
	"sync"
)

// Store holds the current token and admin flag. The zero value is not
// usable; construct with New or Open.
//
// A Store is safe for concurrent use. The admin flag is only ever true
// when the stored value is exactly the canonical "true" representation;
// anything else (missing, malformed, "TRUE", "1") is treated as
// non-admin.
type Store struct {
	mu    sync.RWMutex
	path  string // empty means in-memory only
	token string
	admin bool
}

// New returns an in-memory store with no persistence. Used by tests
// and by the interactive mode, which re-authenticates per run.
func New() *Store {
	return &Store{}
}

// Set stores the token and admin flag and persists them when the store
// is file-backed. The token format is not validated - any non-empty
// string is accepted.
func (s *Store) Set(token string, admin bool) error {
	if token == "" {
		return fmt.Errorf("session: empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.admin = admin
	if s.path == "" {
		return nil
	}
	return writeFile(s.path, token, admin)
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAdmin reports whether the session carries the admin privilege.
// Always false for an unauthenticated session.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.admin
}

// Authenticated reports whether a token is currently held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Clear removes the token and admin flag, and deletes the session file
// when the store is file-backed. Clearing an already-empty session is
// a no-op, not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.admin = false
	if s.path == "" {
		return nil
	}
	return removeFile(s.path)
}
