package store

import (
	"context"
	"sync"

	"github.com/darmiel/checkin/internal/core"
)

var _ core.TokenStore = (*InMemoryTokenStore)(nil)

// InMemoryTokenStore keeps one pending token per session in process memory.
// Nothing survives a restart.
type InMemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[core.SessionID]core.PendingToken
}

func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		tokens: make(map[core.SessionID]core.PendingToken),
	}
}

func (s *InMemoryTokenStore) Put(_ context.Context, session core.SessionID, token core.PendingToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[session] = token
	return nil
}

// Take loads and deletes in one critical section, so concurrent callers
// can never both observe the same token.
func (s *InMemoryTokenStore) Take(_ context.Context, session core.SessionID) (core.PendingToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[session]
	if ok {
		delete(s.tokens, session)
	}
	return token, ok, nil
}

// Pending reports whether session currently has a pending token.
func (s *InMemoryTokenStore) Pending(session core.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tokens[session]
	return ok
}

// Len returns the number of sessions with a pending token.
func (s *InMemoryTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tokens)
}
