package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storyweave/internal/story"
)

// Entry is one saved story plus its bookkeeping.
type Entry struct {
	story.Record
	SavedAt time.Time `json:"saved_at"`
}

type libraryFile struct {
	Stories     []Entry   `json:"stories"`
	LastUpdated time.Time `json:"last_updated"`
}

// Store persists generated stories to a single JSON file. Writes rewrite
// the whole file; story libraries are small and this keeps the file
// human-readable.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates the store and its parent directory.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Save appends a story, assigning an ID when the record has none, and
// returns the saved entry.
func (s *Store) Save(rec story.Record) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()[:8]
	}
	entry := Entry{Record: rec, SavedAt: time.Now()}

	lib, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	lib.Stories = append(lib.Stories, entry)
	lib.LastUpdated = entry.SavedAt

	if err := s.write(lib); err != nil {
		return Entry{}, err
	}
	logrus.WithFields(logrus.Fields{
		"id":    entry.ID,
		"title": entry.Title,
	}).Info("story saved to library")
	return entry, nil
}

// All returns saved stories, newest first.
func (s *Store) All() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(lib.Stories, func(i, j int) bool {
		return lib.Stories[i].SavedAt.After(lib.Stories[j].SavedAt)
	})
	return lib.Stories, nil
}

// Get looks a story up by ID.
func (s *Store) Get(id string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.load()
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range lib.Stories {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (s *Store) load() (*libraryFile, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return &libraryFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer f.Close()

	var lib libraryFile
	if err := json.NewDecoder(f).Decode(&lib); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	return &lib, nil
}

func (s *Store) write(lib *libraryFile) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create library file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lib); err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	return nil
}
