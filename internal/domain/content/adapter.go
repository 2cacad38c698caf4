// internal/domain/content/adapter.go

package content

import (
	"context"
	"time"
)

// SourceAdapter defines the interface for platform collectors. Fetch returns
// records already converted to the canonical shape, with IDs prefixed by the
// adapter's source tag ("{source}_{nativeID}").
type SourceAdapter interface {
	// Name returns the platform tag this adapter collects from
	Name() Source

	// Fetch collects current records from the platform. Implementations must
	// honor ctx cancellation and apply cfg.Limit / cfg.MinScore where the
	// platform API allows it.
	Fetch(ctx context.Context, cfg SourceConfig) ([]*ContentRecord, error)
}

// NoveltyStore defines persistence for novelty entries. Implementations must
// be safe for use by a single tracker; the tracker serializes its own writes.
type NoveltyStore interface {
	// Get returns the entry for a canonical key, or nil if none exists
	Get(ctx context.Context, canonicalKey string) (*NoveltyEntry, error)

	// Upsert creates or replaces the entry for its canonical key
	Upsert(ctx context.Context, entry NoveltyEntry) error

	// DeleteOlderThan removes entries last seen before the cutoff and
	// returns how many were removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// DigestStore defines persistence for generated digests
type DigestStore interface {
	// SaveDigest persists a digest
	SaveDigest(ctx context.Context, d *Digest) error

	// LatestDigest returns the most recently generated digest, or nil if
	// none has been stored yet
	LatestDigest(ctx context.Context) (*Digest, error)
}
