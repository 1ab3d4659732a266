package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/blockgrid/pkg/engine"
	"github.com/matzehuels/blockgrid/pkg/geom"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/group"
)

func testDocument() engine.Document {
	return engine.Document{
		Nodes: []group.Node{
			{ID: "n1", Position: geom.Point{X: 100, Y: 100}, Size: geom.Size{Width: 60, Height: 40}},
		},
		Groups: group.NewState(),
		Grid:   grid.DefaultConfig(),
	}
}

// testStoreContract exercises the behavior every backend must share.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}

	sess := New("demo", testDocument())
	if sess.ID == "" {
		t.Fatal("New should assign an ID")
	}
	if err := s.Put(ctx, sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "demo" || len(got.Document.Nodes) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Document.Nodes[0].Position != (geom.Point{X: 100, Y: 100}) {
		t.Errorf("node position = %v", got.Document.Nodes[0].Position)
	}

	// Overwrite refreshes UpdatedAt.
	before := got.UpdatedAt
	got.Name = "renamed"
	if err := s.Put(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name != "renamed" {
		t.Errorf("Name = %q after overwrite", again.Name)
	}
	if again.UpdatedAt.Before(before) {
		t.Error("UpdatedAt went backwards on overwrite")
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(ids, sess.ID) {
		t.Errorf("List = %v, missing %s", ids, sess.ID)
	}

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStoreContract(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := testDocument()
	doc.Groups.Groups = []*group.Group{
		{ID: "group-1", Title: "original", NodeIDs: []string{"n1"}},
	}
	doc.Groups.Reindex()
	sess := New("demo", doc)
	if err := s.Put(ctx, sess); err != nil {
		t.Fatal(err)
	}

	// The caller keeps ownership of its session after Put.
	sess.Document.Groups.Groups[0].Title = "caller edit"
	sess.Document.Nodes[0].Position.X = -999

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Document.Groups.Groups[0].Title != "original" {
		t.Errorf("stored title = %q, caller mutation leaked into the store", got.Document.Groups.Groups[0].Title)
	}
	if got.Document.Nodes[0].Position.X != 100 {
		t.Errorf("stored node position = %v", got.Document.Nodes[0].Position)
	}

	// Mutations on a fetched session stay on the fetched copy.
	got.Name = "mutated"
	got.Document.Groups.Groups[0].Title = "mutated"
	got.Document.Groups.Groups[0].NodeIDs[0] = "other"

	again, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name != "demo" {
		t.Error("mutating a fetched session changed the stored copy")
	}
	if again.Document.Groups.Groups[0].Title != "original" {
		t.Errorf("stored title = %q after mutating a fetched copy", again.Document.Groups.Groups[0].Title)
	}
	if again.Document.Groups.Groups[0].NodeIDs[0] != "n1" {
		t.Errorf("stored NodeIDs = %v after mutating a fetched copy", again.Document.Groups.Groups[0].NodeIDs)
	}
}

func TestMemoryStoreInvalidPut(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, nil); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Put(nil) = %v", err)
	}
	if err := s.Put(ctx, &Session{}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Put(empty ID) = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStoreContract(t, s)
}

func TestFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b", `a\b`} {
		if _, err := s.Get(ctx, id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Get(%q) = %v, want ErrInvalidID", id, err)
		}
		if err := s.Delete(ctx, id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Delete(%q) = %v, want ErrInvalidID", id, err)
		}
	}
	if err := s.Put(ctx, &Session{ID: "../escape"}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Put traversal = %v, want ErrInvalidID", err)
	}
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, New("demo", testDocument())); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Errorf("List = %v, want one session", ids)
	}
}
