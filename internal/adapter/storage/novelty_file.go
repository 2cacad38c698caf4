// internal/adapter/storage/novelty_file.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"viralwatch/internal/domain/content"
)

// FileNoveltyStore implements content.NoveltyStore on a single JSON file, for
// single-node runs without a database. A load failure is not fatal: the store
// starts empty and every record is treated as new.
type FileNoveltyStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]content.NoveltyEntry
}

// NewFileNoveltyStore opens (or creates) a JSON-file novelty store at path
func NewFileNoveltyStore(path string) (*FileNoveltyStore, error) {
	s := &FileNoveltyStore{
		path:    path,
		entries: make(map[string]content.NoveltyEntry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("error reading novelty file: %w", err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		// Corrupt history is discarded rather than blocking startup
		s.entries = make(map[string]content.NoveltyEntry)
		return s, fmt.Errorf("error parsing novelty file: %w", err)
	}

	return s, nil
}

// Get returns the entry for a canonical key, or nil if none exists
func (s *FileNoveltyStore) Get(_ context.Context, canonicalKey string) (*content.NoveltyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[canonicalKey]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Upsert creates or replaces the entry for its canonical key and flushes the
// file to disk
func (s *FileNoveltyStore) Upsert(_ context.Context, entry content.NoveltyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.CanonicalKey] = entry
	return s.flush()
}

// DeleteOlderThan removes entries last seen before the cutoff
func (s *FileNoveltyStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.LastSeenAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}

	if removed > 0 {
		if err := s.flush(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// flush writes the full entry map atomically via a temp file rename.
// Callers must hold s.mu.
func (s *FileNoveltyStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("error creating novelty dir: %w", err)
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling novelty entries: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing novelty file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing novelty file: %w", err)
	}

	return nil
}
