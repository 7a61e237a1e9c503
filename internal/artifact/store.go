// Package artifact persists assembled outlines as JSON documents on disk,
// one file per document ID.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/bwrigley/docoutline/internal/outline"
)

// Record is the persisted form of one processed document.
type Record struct {
	DocID       string          `json:"doc_id"`
	Filename    string          `json:"filename"`
	ContentHash string          `json:"content_hash"`
	CreatedAt   time.Time       `json:"created_at"`
	Result      *outline.Result `json:"result"`
}

// Store reads and writes outline records under a single directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates the artifact directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(docID string) string {
	return filepath.Join(s.dir, docID+".json")
}

// validDocID rejects IDs that could escape the artifact directory.
func validDocID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, r := range id {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_'
		if !ok {
			return false
		}
	}
	return true
}

// Save writes a record atomically (temp file then rename).
func (s *Store) Save(rec *Record) error {
	if !validDocID(rec.DocID) {
		return fmt.Errorf("invalid doc id: %q", rec.DocID)
	}
	data, err := sonic.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "rec-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path(rec.DocID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp: %w", err)
	}
	return nil
}

// Load reads a record by document ID. Returns os.ErrNotExist when absent.
func (s *Store) Load(docID string) (*Record, error) {
	if !validDocID(docID) {
		return nil, os.ErrNotExist
	}
	s.mu.Lock()
	data, err := os.ReadFile(s.path(docID))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", docID, err)
	}
	return &rec, nil
}

// Delete removes a record. Returns os.ErrNotExist when absent.
func (s *Store) Delete(docID string) error {
	if !validDocID(docID) {
		return os.ErrNotExist
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.Remove(s.path(docID))
}

// ListEntry summarizes a stored record without its outline body.
type ListEntry struct {
	DocID     string    `json:"doc_id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Headings  int       `json:"headings"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns summaries of all stored records, newest first.
func (s *Store) List() ([]ListEntry, error) {
	s.mu.Lock()
	names, err := os.ReadDir(s.dir)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	entries := make([]ListEntry, 0, len(names))
	for _, de := range names {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		docID := strings.TrimSuffix(de.Name(), ".json")
		rec, err := s.Load(docID)
		if err != nil {
			continue
		}
		entry := ListEntry{
			DocID:     rec.DocID,
			Filename:  rec.Filename,
			CreatedAt: rec.CreatedAt,
		}
		if rec.Result != nil {
			entry.Title = rec.Result.Title
			entry.Headings = len(rec.Result.Outline)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
