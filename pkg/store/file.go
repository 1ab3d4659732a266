package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/blockgrid/pkg/observability"
)

// FileStore persists sessions as JSON files in a directory, one file per
// session. Intended for CLI usage where no external services run.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store in the given directory.
// The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Get retrieves a session by ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		observability.Store().OnLoad(ctx, "file", id, ErrNotFound)
		return nil, ErrNotFound
	}
	if err != nil {
		observability.Store().OnLoad(ctx, "file", id, err)
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		observability.Store().OnLoad(ctx, "file", id, err)
		return nil, err
	}
	observability.Store().OnLoad(ctx, "file", id, nil)
	return &sess, nil
}

// Put writes a session to disk, overwriting any existing file.
func (s *FileStore) Put(ctx context.Context, sess *Session) error {
	if sess == nil || validateID(sess.ID) != nil {
		return ErrInvalidID
	}
	sess.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	err = os.WriteFile(s.path(sess.ID), data, 0644)
	observability.Store().OnSave(ctx, "file", sess.ID, len(data), err)
	return err
}

// Delete removes a session file. Unknown IDs return ErrNotFound.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// List returns the IDs of all stored sessions.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validateID rejects IDs that would escape the store directory.
func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return ErrInvalidID
	}
	return nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
