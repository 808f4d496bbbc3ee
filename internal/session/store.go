// Package session holds the in-memory login-token store. A token is minted
// on every successful login and maps to the account's ID until the process
// exits. There is no expiry and no removal; restarting the server logs
// everyone out.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrTokenNotFound is returned by Resolve when the presented token was never
// issued by this process. Handlers translate it into an HTTP 401.
var ErrTokenNotFound = errors.New("login token not found")

// Store maps login tokens to account IDs. Construct one per process with
// New and pass it to every handler that gates on authentication. Lookups may
// run concurrently; inserts take the write lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]string
}

func New() *Store {
	return &Store{sessions: make(map[uuid.UUID]string)}
}

// Create mints a fresh random token for the given account and records the
// session. The 128-bit random space makes collisions a non-concern.
func (s *Store) Create(accountID string) uuid.UUID {
	token := uuid.New()
	s.mu.Lock()
	s.sessions[token] = accountID
	s.mu.Unlock()
	return token
}

// Resolve returns the account ID a token was issued for, or
// ErrTokenNotFound if the token is unknown.
func (s *Store) Resolve(token uuid.UUID) (string, error) {
	s.mu.RLock()
	accountID, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", ErrTokenNotFound
	}
	return accountID, nil
}

// Len reports how many sessions are live.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
