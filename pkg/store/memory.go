package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/blockgrid/pkg/observability"
)

// MemoryStore keeps sessions in process memory.
// Intended for development and tests; contents are lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get retrieves a session by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		observability.Store().OnLoad(ctx, "memory", id, ErrNotFound)
		return nil, ErrNotFound
	}
	observability.Store().OnLoad(ctx, "memory", id, nil)
	return sess.clone(), nil
}

// Put stores a session, overwriting any existing one with the same ID.
func (s *MemoryStore) Put(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidID
	}
	sess.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.sessions[sess.ID] = sess.clone()
	s.mu.Unlock()

	observability.Store().OnSave(ctx, "memory", sess.ID, 0, nil)
	return nil
}

// Delete removes a session. Unknown IDs return ErrNotFound.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// List returns all session IDs in unspecified order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
