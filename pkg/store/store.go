// Package store persists editor sessions for the blockgrid engine.
//
// A session is a wholesale snapshot of one editor instance: node geometry,
// grouping state, and grid settings. The external diagram file format is
// out of scope - sessions exist so a host can park an editor and pick it
// up again, or hand it to another service instance.
//
// Four backends implement the Store interface:
//   - memory: in-process storage for development and tests
//   - file: JSON files in a directory, for CLI usage
//   - redis: shared storage for multi-instance deployments
//   - mongo: durable document storage
//
// All backends report operations through observability.StoreHooks.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/blockgrid/pkg/engine"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidID is returned for empty or malformed session IDs.
	ErrInvalidID = errors.New("invalid session id")
)

// Session wraps an engine snapshot with identity and timestamps.
type Session struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name,omitempty" bson:"name,omitempty"`
	Document  engine.Document `json:"document" bson:"document"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// New creates a session around a document with a fresh UUID.
func New(name string, doc engine.Document) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// clone returns a deep copy of the session. The in-memory backend stores
// and serves clones so callers and the store never share a document.
func (s *Session) clone() *Session {
	copied := *s
	copied.Document = s.Document.Clone()
	return &copied
}

// Store is the persistence interface for editor sessions.
// Get returns ErrNotFound for unknown IDs. Put overwrites existing
// sessions and refreshes UpdatedAt.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}
