package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralwatch/internal/domain/content"
)

type memoryStore struct {
	entries map[string]content.NoveltyEntry
	getErr  error
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]content.NoveltyEntry)}
}

func (s *memoryStore) Get(_ context.Context, key string) (*content.NoveltyEntry, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *memoryStore) Upsert(_ context.Context, entry content.NoveltyEntry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries[entry.CanonicalKey] = entry
	return nil
}

func (s *memoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	if s.getErr != nil {
		return 0, s.getErr
	}
	removed := 0
	for key, entry := range s.entries {
		if entry.LastSeenAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func TestIsNewWhenVelocityClearsThreshold(t *testing.T) {
	tracker := NewNoveltyTracker(newMemoryStore())
	rec := &content.ContentRecord{
		ID: "hn_1", URL: "https://example.com/post", RawScore: 200, Velocity: 60,
	}

	assert.True(t, tracker.IsNewOrResurged(context.Background(), rec, 50))

	rec.Velocity = 40
	assert.False(t, tracker.IsNewOrResurged(context.Background(), rec, 50))
}

func TestResurgenceNeedsMoreThanDouble(t *testing.T) {
	store := newMemoryStore()
	now := time.Now().UTC()
	store.entries["example.com/post"] = content.NoveltyEntry{
		CanonicalKey: "example.com/post",
		LastScore:    100,
		LastSeenAt:   now.Add(-time.Hour),
	}
	tracker := NewNoveltyTracker(store)

	rec := &content.ContentRecord{
		ID: "hn_1", URL: "https://example.com/post", RawScore: 150, Velocity: 999,
	}
	// Seen before and not doubled: suppressed regardless of velocity
	assert.False(t, tracker.IsNewOrResurged(context.Background(), rec, 50))

	rec.RawScore = 200
	assert.False(t, tracker.IsNewOrResurged(context.Background(), rec, 50), "exactly double is not resurged")

	rec.RawScore = 250
	assert.True(t, tracker.IsNewOrResurged(context.Background(), rec, 50))
}

func TestUnparsableURLAlwaysNew(t *testing.T) {
	tracker := NewNoveltyTracker(newMemoryStore())
	rec := &content.ContentRecord{ID: "hn_1", URL: "://broken", RawScore: 1, Velocity: 0}

	assert.True(t, tracker.IsNewOrResurged(context.Background(), rec, 50))
}

func TestFailingStoreFallsBackToVelocity(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	tracker := NewNoveltyTracker(store)

	rec := &content.ContentRecord{
		ID: "hn_1", URL: "https://example.com/post", RawScore: 10, Velocity: 80,
	}
	assert.True(t, tracker.IsNewOrResurged(context.Background(), rec, 50))

	rec.Velocity = 10
	assert.False(t, tracker.IsNewOrResurged(context.Background(), rec, 50))
}

func TestUpdateHistoryRecordsCanonicalKeys(t *testing.T) {
	store := newMemoryStore()
	tracker := NewNoveltyTracker(store)
	now := time.Now().UTC()

	records := []*content.ContentRecord{
		{ID: "hn_1", URL: "https://www.example.com/post/", RawScore: 120},
		{ID: "hn_2", URL: "://broken", RawScore: 50},
	}
	tracker.UpdateHistory(context.Background(), records, now)

	require.Len(t, store.entries, 1)
	entry, ok := store.entries["example.com/post"]
	require.True(t, ok)
	assert.Equal(t, 120, entry.LastScore)
	assert.Equal(t, now, entry.LastSeenAt)
}

func TestUpdateHistoryToleratesStoreErrors(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	tracker := NewNoveltyTracker(store)

	records := []*content.ContentRecord{
		{ID: "hn_1", URL: "https://example.com/post", RawScore: 120},
	}
	// Must not panic or propagate
	tracker.UpdateHistory(context.Background(), records, time.Now().UTC())
	assert.Empty(t, store.entries)
}

func TestPruneRemovesStaleEntries(t *testing.T) {
	store := newMemoryStore()
	now := time.Now().UTC()
	store.entries["old"] = content.NoveltyEntry{
		CanonicalKey: "old", LastScore: 10, LastSeenAt: now.AddDate(0, 0, -31),
	}
	store.entries["fresh"] = content.NoveltyEntry{
		CanonicalKey: "fresh", LastScore: 10, LastSeenAt: now.AddDate(0, 0, -5),
	}
	tracker := NewNoveltyTracker(store)

	tracker.Prune(context.Background(), now, 0)

	_, oldKept := store.entries["old"]
	_, freshKept := store.entries["fresh"]
	assert.False(t, oldKept)
	assert.True(t, freshKept)
}
