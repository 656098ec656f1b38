package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var SessionNotFoundErr = errors.New("session not found")

// Session is a per-client bag of key-value state identified by an opaque id.
// The id is the only thing that ever leaves the server (inside a signed
// cookie); the values stay in the store. The bag is safe for concurrent use:
// parallel requests carrying the same cookie share one Session.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu     sync.RWMutex
	values map[string]any
}

// New creates an empty session with a fresh opaque id.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		values:    make(map[string]any),
	}
}

func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store persists sessions between requests from the same client.
type Store interface {
	Get(id string) (*Session, error)
	Save(session *Session) error
	Delete(id string) error
}
