// internal/service/tracker/tracker.go

package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"viralwatch/internal/domain/content"
	"viralwatch/internal/service/viral"
)

// DefaultRetentionDays is how long a novelty entry survives without being
// seen again before the prune pass removes it.
const DefaultRetentionDays = 30

// resurgenceFactor: a record whose score more than doubled since the last
// observation counts as a second wave of attention and is reported again.
const resurgenceFactor = 2

// NoveltyTracker decides whether a record's popularity change since the last
// observation warrants re-reporting. Store failures degrade gracefully: a
// failed read treats the record as new, a failed write is logged and never
// blocks digest generation.
type NoveltyTracker struct {
	store content.NoveltyStore
	mu    sync.Mutex
}

// NewNoveltyTracker creates a tracker backed by the given store
func NewNoveltyTracker(store content.NoveltyStore) *NoveltyTracker {
	return &NoveltyTracker{store: store}
}

// IsNewOrResurged reports whether a record should be treated as fresh viral
// content. A record with no history is new when its velocity clears the
// threshold; a record with history is resurged when its score more than
// doubled since the last save. Records whose URL cannot be canonicalized are
// always treated as new.
func (t *NoveltyTracker) IsNewOrResurged(ctx context.Context, rec *content.ContentRecord, thresholdVelocity float64) bool {
	key := viral.Canonicalize(rec.URL)
	if key == "" {
		return true
	}

	entry, err := t.store.Get(ctx, key)
	if err != nil {
		log.Printf("[tracker] warning: reading novelty entry for %q: %v", key, err)
		return rec.Velocity >= thresholdVelocity
	}

	if entry != nil {
		return rec.RawScore > entry.LastScore*resurgenceFactor
	}

	return rec.Velocity >= thresholdVelocity
}

// UpdateHistory upserts a novelty entry for every record with a usable
// canonical key, recording the current raw score and now as last seen.
func (t *NoveltyTracker) UpdateHistory(ctx context.Context, records []*content.ContentRecord, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, rec := range records {
		key := viral.Canonicalize(rec.URL)
		if key == "" {
			continue
		}

		entry := content.NoveltyEntry{
			CanonicalKey: key,
			LastScore:    rec.RawScore,
			LastSeenAt:   now,
		}
		if err := t.store.Upsert(ctx, entry); err != nil {
			log.Printf("[tracker] warning: saving novelty entry for %q: %v", key, err)
		}
	}
}

// Prune removes entries last seen more than retentionDays ago. A
// non-positive retentionDays falls back to the default.
func (t *NoveltyTracker) Prune(ctx context.Context, now time.Time, retentionDays int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	removed, err := t.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("[tracker] warning: pruning novelty entries: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[tracker] pruned %d novelty entries older than %d days", removed, retentionDays)
	}
}
