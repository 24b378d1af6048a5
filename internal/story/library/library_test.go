package library

import (
	"path/filepath"
	"testing"
	"time"

	"storyweave/internal/story"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "lib", "stories.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveAssignsID(t *testing.T) {
	s := newTestStore(t)
	entry, err := s.Save(story.Record{Title: "The River"})
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID == "" {
		t.Error("Save should assign an ID")
	}
	if len(entry.ID) != 8 {
		t.Errorf("ID length = %d, want 8", len(entry.ID))
	}
}

func TestSaveKeepsExistingID(t *testing.T) {
	s := newTestStore(t)
	entry, err := s.Save(story.Record{ID: "fixed-id", Title: "The River"})
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != "fixed-id" {
		t.Errorf("ID = %q", entry.ID)
	}
}

func TestAllNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"first", "second", "third"} {
		if _, err := s.Save(story.Record{Title: title}); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Title != "third" || entries[2].Title != "first" {
		t.Errorf("order = %q, %q, %q", entries[0].Title, entries[1].Title, entries[2].Title)
	}
}

func TestAllEmptyStore(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from empty store", len(entries))
	}
}

func TestGet(t *testing.T) {
	s := newTestStore(t)
	saved, err := s.Save(story.Record{Title: "Findable", Culture: "celtic"})
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Get(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("story not found")
	}
	if got.Title != "Findable" || got.Culture != "celtic" {
		t.Errorf("got %+v", got.Record)
	}

	if _, ok, _ := s.Get("missing"); ok {
		t.Error("found a story that was never saved")
	}
}

func TestPersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.json")
	s1, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s1.Save(story.Record{Title: "Durable"}); err != nil {
		t.Fatal(err)
	}

	s2, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := s2.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Title != "Durable" {
		t.Errorf("entries = %+v", entries)
	}
}
