package sessions

import (
	"fmt"
	"sync"
)

// InMemoryStore is an in-memory implementation of Store
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Get retrieves a session by id. Expired sessions are removed and reported
// as not found.
func (s *InMemoryStore) Get(id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}

	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, SessionNotFoundErr
	}
	if session.Expired() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, SessionNotFoundErr
	}
	return session, nil
}

// Save creates or updates a session
func (s *InMemoryStore) Save(session *Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *InMemoryStore) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
