package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store owns all live sessions, keyed by identifier. Sessions never
// expire; a client abandons one by starting a new session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create makes a new session with a unique UUIDv7 identifier and returns
// it.
func (st *Store) Create() *Session {
	s := &Session{id: uuid.Must(uuid.NewV7()).String()}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
	return s
}

// Get resolves a session by identifier.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, exists := st.sessions[id]
	return s, exists
}

// Lookup resolves a session by identifier, returning ErrUnknownSession
// when it does not exist.
func (st *Store) Lookup(id string) (*Session, error) {
	s, exists := st.Get(id)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s, nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
